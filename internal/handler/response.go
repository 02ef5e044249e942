package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse 定义了标准的API错误响应结构
type ErrorResponse struct {
	Error string `json:"error"`
}

// sendErrorResponse 是一个辅助函数，用于发送标准格式的错误响应
func sendErrorResponse(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, ErrorResponse{Error: message})
}

var errUserNotAuthed = errors.New("用户未认证")

// currentUserID 从认证后的context取当前用户ID
// jwt.MapClaims里的数字会被解析成float64，context里的值又是interface{}，所以要两步断言转换
func currentUserID(c *gin.Context) (uint64, error) {
	// 理论上中间件会拦截未认证请求，但防御性编程是好习惯
	userIDFloat, exists := c.Get("userID")
	if !exists {
		return 0, errUserNotAuthed
	}
	f, ok := userIDFloat.(float64)
	if !ok {
		return 0, errUserNotAuthed
	}
	return uint64(f), nil
}

func abortUnauthed(c *gin.Context) {
	sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
}
