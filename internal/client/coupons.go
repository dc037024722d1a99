package client

import (
	"context"
	"net/url"

	"coupon-portal/internal/models"
)

// ListCoupons returns every coupon with aggregate totals (admin)
func (c *Client) ListCoupons(ctx context.Context) (*models.CouponList, error) {
	var list models.CouponList
	if err := c.Get(ctx, "/coupons", &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// ListUserCoupons returns the coupons booked by userID
func (c *Client) ListUserCoupons(ctx context.Context, userID string) (*models.UserCoupons, error) {
	var list models.UserCoupons
	if err := c.Get(ctx, "/coupons/"+url.PathEscape(userID), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// BookCoupon books one cart item's worth of coupons and returns the response status
func (c *Client) BookCoupon(ctx context.Context, req models.BookingRequest) (int, error) {
	return c.Post(ctx, "/coupons/book", req, nil)
}

// UpdateCouponStatus moves a coupon to status
func (c *Client) UpdateCouponStatus(ctx context.Context, couponID string, status models.CouponStatus) error {
	_, err := c.Post(ctx, "/coupons/status", models.StatusUpdateRequest{CouponID: couponID, Status: status}, nil)
	return err
}

// ListTemplates returns the price templates
func (c *Client) ListTemplates(ctx context.Context) ([]models.CouponTemplate, error) {
	var templates []models.CouponTemplate
	if err := c.Get(ctx, "/template", &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// UpsertTemplate creates or updates the price of a template
func (c *Client) UpsertTemplate(ctx context.Context, t models.CouponTemplate) error {
	_, err := c.Post(ctx, "/template/edit", t, nil)
	return err
}

// Dashboard returns the aggregate statistics
func (c *Client) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	if err := c.Get(ctx, "/admin/dashboard", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
