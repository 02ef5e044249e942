package service

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// 业务层的哨兵错误，handler用errors.Is把它们翻译成对应的HTTP状态码
var (
	ErrListingNotFound      = errors.New("房源不存在")
	ErrFavoriteNotFound     = errors.New("收藏记录不存在")
	ErrNotificationNotFound = errors.New("通知不存在")
	ErrNotOwner             = errors.New("只能操作自己的资源")
	ErrAlreadyLiked         = errors.New("您已经点赞过该房源")
)

// 判断错误的“根”是不是MySQL的重复键错误（错误号1062就是"Duplicate entry"）
// 唯一索引兜底的并发竞争，输掉的那一方会拿到这个错，业务上要当成幂等成功处理
func isDuplicateKeyErr(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
