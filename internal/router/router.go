package router

import (
	"Vega_Estate/internal/handler"
	"Vega_Estate/internal/middleware"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(
	userHandler handler.UserHandler,
	listingHandler handler.ListingHandler,
	likeHandler handler.LikeHandler,
	favoriteHandler handler.FavoriteHandler,
	notificationHandler handler.NotificationHandler,
	statsHandler handler.StatsHandler,
) *gin.Engine {
	r := gin.Default()
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pang",
		})
	})
	api := r.Group("/api")
	{
		userGroup := api.Group("/users")
		{
			userGroup.POST("/register", userHandler.Register)
			userGroup.POST("/login", userHandler.Login)
			userGroup.GET("/profile", middleware.AuthMiddleware(), userHandler.GetProfile)
		}

		listingGroup := api.Group("/listing")
		{
			listingGroup.GET("/get/:id", listingHandler.GetListing)
			listingGroup.GET("/get", listingHandler.SearchListings)
			// 浏览/分享计数不需要登录，不去重，单纯原子自增
			listingGroup.POST("/view/:id", listingHandler.IncrementViews)
			listingGroup.POST("/share/:id", listingHandler.IncrementShares)
			listingGroup.GET("/views/:id", listingHandler.GetViews)

			authed := listingGroup.Group("/")
			authed.Use(middleware.AuthMiddleware())
			{
				authed.POST("/create", listingHandler.CreateListing)
				authed.POST("/update/:id", listingHandler.UpdateListing)
				authed.DELETE("/delete/:id", listingHandler.DeleteListing)
			}
		}

		likeGroup := api.Group("/like")
		{
			// 点赞数查询不需要登录
			likeGroup.GET("/count/:listing_id", likeHandler.GetLikesByListing)
			likeGroup.POST("/toggle/:listing_id", middleware.AuthMiddleware(), likeHandler.ToggleLike)
			likeGroup.GET("/check/:listing_id", middleware.AuthMiddleware(), likeHandler.CheckUserLike)
		}

		favoriteGroup := api.Group("/favorites")
		favoriteGroup.Use(middleware.AuthMiddleware())
		{
			favoriteGroup.GET("/user", favoriteHandler.GetUserFavorites)
			favoriteGroup.POST("/add/:listing_id", favoriteHandler.AddFavorite)
			favoriteGroup.DELETE("/remove/:listing_id", favoriteHandler.RemoveFavorite)
			favoriteGroup.GET("/check/:listing_id", favoriteHandler.CheckFavorite)
			favoriteGroup.GET("/count/:listing_id", favoriteHandler.CountListingFavorites)
		}

		notificationGroup := api.Group("/notifications")
		notificationGroup.Use(middleware.AuthMiddleware())
		{
			notificationGroup.GET("", notificationHandler.GetNotifications)
			notificationGroup.PUT("/:id/read", notificationHandler.MarkRead)
			notificationGroup.PUT("/read-all", notificationHandler.MarkAllRead)
			notificationGroup.DELETE("/:id", notificationHandler.DeleteNotification)
		}

		statsGroup := api.Group("/stats")
		{
			statsGroup.GET("", statsHandler.GetPlatformStats)
			statsGroup.GET("/property-types", statsHandler.GetTypeStats)
			statsGroup.GET("/cities", statsHandler.GetCityStats)
		}
	}

	return r
}
