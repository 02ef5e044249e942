package service

import (
	"Vega_Estate/internal/repository"
	"fmt"
	"os"
	"testing"

	"Vega_Estate/pkg/redis"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// 压测需要真实的mysql和redis，只在 -bench 下才会跑
func setupBenchmark() ListingService {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(127.0.0.1:3306)/vega_estate?charset=utf8mb4&parseTime=True&loc=Local"
	}
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		panic(fmt.Sprintf("无法连接到数据库: %v", err))
	}

	redisClient, err := redis.InitRedis()
	if err != nil {
		panic(fmt.Sprintf("无法连接到Redis: %v", err))
	}

	listingRepo := repository.NewListingRepository(db, redisClient)
	return NewListingService(listingRepo)
}

// 缓存失效瞬间大量并发打到同一条房源，看SingleFlight能不能把请求拦成一次查库
func BenchmarkGetListingByID_CacheBreakdown(b *testing.B) {
	listingService := setupBenchmark()

	targetListingID := uint64(1)

	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, err := listingService.GetListingByID(targetListingID)
			if err != nil {
				b.Errorf("GetListingByID failed: %v", err)
			}
		}
	})
}
