package services

import (
	"context"

	"coupon-portal/internal/client"
	"coupon-portal/internal/models"
)

// Booker books coupons upstream; it returns the HTTP status of the creation call
type Booker interface {
	BookCoupon(ctx context.Context, req models.BookingRequest) (int, error)
}

// CouponStatusUpdater changes the status of one coupon upstream
type CouponStatusUpdater interface {
	UpdateCouponStatus(ctx context.Context, couponID string, status models.CouponStatus) error
}

// CouponAPI is the coupon side of the coupon API
type CouponAPI interface {
	Booker
	CouponStatusUpdater
	ListCoupons(ctx context.Context) (*models.CouponList, error)
	ListUserCoupons(ctx context.Context, userID string) (*models.UserCoupons, error)
}

// TemplateAPI reads and writes price templates upstream
type TemplateAPI interface {
	ListTemplates(ctx context.Context) ([]models.CouponTemplate, error)
	UpsertTemplate(ctx context.Context, t models.CouponTemplate) error
}

// DashboardAPI serves aggregate statistics
type DashboardAPI interface {
	Dashboard(ctx context.Context) (*models.DashboardStats, error)
}

// AccountAPI exchanges credentials for session tokens
type AccountAPI interface {
	Login(ctx context.Context, creds client.Credentials) (string, error)
	Signup(ctx context.Context, req client.SignupRequest) (string, error)
}

// BackendAPI is everything the portal asks of the coupon API
type BackendAPI interface {
	CouponAPI
	TemplateAPI
	DashboardAPI
	AccountAPI
}

var _ BackendAPI = (*client.Client)(nil)
