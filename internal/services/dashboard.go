package services

import (
	"context"
	"fmt"
	"sort"

	"coupon-portal/internal/display"
	"coupon-portal/internal/logger"
	"coupon-portal/internal/models"

	"go.uber.org/zap"
)

// DashboardService loads the admin statistics
type DashboardService struct {
	api DashboardAPI
	log *zap.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(api DashboardAPI, log *zap.Logger) *DashboardService {
	if log == nil {
		log = zap.NewNop()
	}
	return &DashboardService{api: api, log: log}
}

// Stats fetches the dashboard with per-day rows in calendar order
func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	stats, err := s.api.Dashboard(ctx)
	if err != nil {
		logger.For(ctx, s.log).Error("failed to load dashboard", zap.Error(err))
		return nil, fmt.Errorf("load dashboard: %w", err)
	}

	sort.SliceStable(stats.PerDayStats, func(i, j int) bool {
		a, aok := display.ParseDay(stats.PerDayStats[i].Day)
		b, bok := display.ParseDay(stats.PerDayStats[j].Day)
		if !aok || !bok {
			return aok && !bok
		}
		return a.Before(b)
	})
	return stats, nil
}
