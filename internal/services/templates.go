package services

import (
	"context"
	"fmt"
	"sort"

	"coupon-portal/internal/logger"
	"coupon-portal/internal/models"

	"go.uber.org/zap"
)

// TemplateService edits the coupon price templates
type TemplateService struct {
	api TemplateAPI
	log *zap.Logger
}

// NewTemplateService creates a new template service
func NewTemplateService(api TemplateAPI, log *zap.Logger) *TemplateService {
	if log == nil {
		log = zap.NewNop()
	}
	return &TemplateService{api: api, log: log}
}

// List fetches the templates ordered by meal then preference
func (s *TemplateService) List(ctx context.Context) ([]models.CouponTemplate, error) {
	templates, err := s.api.ListTemplates(ctx)
	if err != nil {
		logger.For(ctx, s.log).Error("failed to load templates", zap.Error(err))
		return nil, fmt.Errorf("list templates: %w", err)
	}
	sortTemplates(templates)
	return templates, nil
}

// Upsert creates or replaces the price of a (meal, preference) pair and returns
// the refreshed template list. A failed write fetches nothing.
func (s *TemplateService) Upsert(ctx context.Context, meal models.Meal, preference models.Preference, price float64) ([]models.CouponTemplate, error) {
	tpl := models.CouponTemplate{CouponType: meal, FoodPreference: preference, Price: price}
	if err := tpl.Validate(); err != nil {
		return nil, err
	}

	log := logger.For(ctx, s.log)
	if err := s.api.UpsertTemplate(ctx, tpl); err != nil {
		log.Error("template update failed",
			zap.String("meal", string(meal)),
			zap.String("preference", string(preference)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("upsert template: %w", err)
	}
	log.Info("template updated",
		zap.String("meal", string(meal)),
		zap.String("preference", string(preference)),
		zap.Float64("price", price),
	)

	return s.List(ctx)
}

func sortTemplates(templates []models.CouponTemplate) {
	rank := func(m models.Meal) int {
		for i, meal := range models.Meals {
			if meal == m {
				return i
			}
		}
		return len(models.Meals)
	}
	sort.SliceStable(templates, func(i, j int) bool {
		a, b := templates[i], templates[j]
		if a.CouponType != b.CouponType {
			return rank(a.CouponType) < rank(b.CouponType)
		}
		return a.FoodPreference > b.FoodPreference
	})
}
