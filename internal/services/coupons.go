package services

import (
	"context"
	"fmt"
	"sort"

	"coupon-portal/internal/logger"
	"coupon-portal/internal/models"

	"go.uber.org/zap"
)

// FilterAll matches every status or every booker
const FilterAll = "all"

// CouponFilter narrows the admin coupon table
type CouponFilter struct {
	Status   string
	BookedBy string
}

// Active reports whether the filter narrows anything
func (f CouponFilter) Active() bool {
	return (f.Status != "" && f.Status != FilterAll) || (f.BookedBy != "" && f.BookedBy != FilterAll)
}

// FilterCoupons returns the coupons matching f, in input order.
// Cancelled coupons are never listed.
func FilterCoupons(coupons []models.Coupon, f CouponFilter) []models.Coupon {
	result := make([]models.Coupon, 0, len(coupons))
	for _, c := range coupons {
		if c.Status == models.CouponCancelled {
			continue
		}
		if f.Status != "" && f.Status != FilterAll && string(c.Status) != f.Status {
			continue
		}
		if f.BookedBy != "" && f.BookedBy != FilterAll && c.BookedBy != f.BookedBy {
			continue
		}
		result = append(result, c)
	}
	return result
}

// Bookers returns the distinct flats that booked coupons, sorted
func Bookers(coupons []models.Coupon) []string {
	seen := make(map[string]struct{})
	var bookers []string
	for _, c := range coupons {
		if c.BookedBy == "" {
			continue
		}
		if _, ok := seen[c.BookedBy]; ok {
			continue
		}
		seen[c.BookedBy] = struct{}{}
		bookers = append(bookers, c.BookedBy)
	}
	sort.Strings(bookers)
	return bookers
}

// CouponService loads coupon listings
type CouponService struct {
	api CouponAPI
	log *zap.Logger
}

// NewCouponService creates a new coupon service
func NewCouponService(api CouponAPI, log *zap.Logger) *CouponService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CouponService{api: api, log: log}
}

// AdminListing loads every coupon and returns a board over them
func (s *CouponService) AdminListing(ctx context.Context) (*models.CouponList, *StatusBoard, error) {
	list, err := s.api.ListCoupons(ctx)
	if err != nil {
		logger.For(ctx, s.log).Error("failed to load coupons", zap.Error(err))
		return nil, nil, fmt.Errorf("list coupons: %w", err)
	}
	return list, NewStatusBoard(s.api, list.Coupons, s.log), nil
}

// UserCoupons loads the coupons of one resident
func (s *CouponService) UserCoupons(ctx context.Context, userID string) (*models.UserCoupons, error) {
	coupons, err := s.api.ListUserCoupons(ctx, userID)
	if err != nil {
		logger.For(ctx, s.log).Error("failed to load user coupons",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("list coupons of %s: %w", userID, err)
	}
	return coupons, nil
}

// Board wraps coupons the caller already holds, such as a row posted back by a form
func (s *CouponService) Board(coupons []models.Coupon) *StatusBoard {
	return NewStatusBoard(s.api, coupons, s.log)
}

// StatusBoard is a loaded coupon list whose statuses can be changed one at a time
type StatusBoard struct {
	api     CouponStatusUpdater
	coupons []models.Coupon
	log     *zap.Logger
}

// NewStatusBoard creates a board over coupons
func NewStatusBoard(api CouponStatusUpdater, coupons []models.Coupon, log *zap.Logger) *StatusBoard {
	if log == nil {
		log = zap.NewNop()
	}
	return &StatusBoard{api: api, coupons: coupons, log: log}
}

// Coupons returns the board's coupons
func (b *StatusBoard) Coupons() []models.Coupon {
	return b.coupons
}

// Find returns the coupon with id
func (b *StatusBoard) Find(id string) (*models.Coupon, bool) {
	for i := range b.coupons {
		if b.coupons[i].CouponID == id {
			return &b.coupons[i], true
		}
	}
	return nil, false
}

// SetStatus moves coupon id to next. The local copy changes only after the
// coupon API accepted the update; on failure it keeps its previous status.
func (b *StatusBoard) SetStatus(ctx context.Context, id string, next models.CouponStatus) (*models.Coupon, error) {
	coupon, ok := b.Find(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrCouponNotFound, id)
	}
	if !coupon.Status.CanTransition(next) {
		return coupon, fmt.Errorf("%w: %s to %s", models.ErrInvalidTransition, coupon.Status, next)
	}

	log := logger.For(ctx, b.log).With(
		zap.String("coupon_id", id),
		zap.String("from", string(coupon.Status)),
		zap.String("to", string(next)),
	)
	if err := b.api.UpdateCouponStatus(ctx, id, next); err != nil {
		log.Error("coupon status update failed", zap.Error(err))
		return coupon, fmt.Errorf("update coupon %s: %w", id, err)
	}

	coupon.Status = next
	log.Info("coupon status updated")
	return coupon, nil
}
