package services

import (
	"context"
	"errors"
	"testing"

	"coupon-portal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCouponAPI is a mock implementation of CouponAPI
type MockCouponAPI struct {
	mock.Mock
}

func (m *MockCouponAPI) BookCoupon(ctx context.Context, req models.BookingRequest) (int, error) {
	args := m.Called(ctx, req)
	return args.Int(0), args.Error(1)
}

func (m *MockCouponAPI) UpdateCouponStatus(ctx context.Context, couponID string, status models.CouponStatus) error {
	args := m.Called(ctx, couponID, status)
	return args.Error(0)
}

func (m *MockCouponAPI) ListCoupons(ctx context.Context) (*models.CouponList, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CouponList), args.Error(1)
}

func (m *MockCouponAPI) ListUserCoupons(ctx context.Context, userID string) (*models.UserCoupons, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserCoupons), args.Error(1)
}

func sampleCoupons() []models.Coupon {
	return []models.Coupon{
		{CouponID: "c1", Day: "2025-09-28", CouponType: models.MealLunch, Status: models.CouponBooked, Price: 80, BookedBy: "B-202"},
		{CouponID: "c2", Day: "2025-09-29", CouponType: models.MealDinner, Status: models.CouponPaid, Price: 90, BookedBy: "A-101"},
		{CouponID: "c3", Day: "2025-09-30", CouponType: models.MealBreakfast, Status: models.CouponCancelled, Price: 40, BookedBy: "C-303"},
		{CouponID: "c4", Day: "2025-10-01", CouponType: models.MealLunch, Status: models.CouponCollected, Price: 80, BookedBy: "A-101"},
	}
}

func TestStatusBoard_SetStatus(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		next       models.CouponStatus
		upstream   error
		wantErr    error
		wantStatus models.CouponStatus
		wantCall   bool
	}{
		{name: "booked to paid", id: "c1", next: models.CouponPaid, wantStatus: models.CouponPaid, wantCall: true},
		{name: "paid to collected", id: "c2", next: models.CouponCollected, wantStatus: models.CouponCollected, wantCall: true},
		{name: "booked to cancelled", id: "c1", next: models.CouponCancelled, wantStatus: models.CouponCancelled, wantCall: true},
		{name: "booked to collected is rejected", id: "c1", next: models.CouponCollected, wantErr: models.ErrInvalidTransition, wantStatus: models.CouponBooked},
		{name: "collected is terminal", id: "c4", next: models.CouponCancelled, wantErr: models.ErrInvalidTransition, wantStatus: models.CouponCollected},
		{name: "unknown coupon", id: "nope", next: models.CouponPaid, wantErr: models.ErrCouponNotFound},
		{name: "upstream failure keeps old status", id: "c1", next: models.CouponPaid, upstream: errors.New("boom"), wantStatus: models.CouponBooked, wantCall: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := new(MockCouponAPI)
			if tt.wantCall {
				api.On("UpdateCouponStatus", mock.Anything, tt.id, tt.next).Return(tt.upstream).Once()
			}
			board := NewStatusBoard(api, sampleCoupons(), nil)

			coupon, err := board.SetStatus(context.Background(), tt.id, tt.next)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.upstream != nil:
				assert.ErrorIs(t, err, tt.upstream)
			default:
				assert.NoError(t, err)
			}

			if tt.wantStatus != "" {
				require.NotNil(t, coupon)
				assert.Equal(t, tt.wantStatus, coupon.Status)
				stored, ok := board.Find(tt.id)
				require.True(t, ok)
				assert.Equal(t, tt.wantStatus, stored.Status)
			}

			if tt.wantCall {
				api.AssertExpectations(t)
			} else {
				api.AssertNotCalled(t, "UpdateCouponStatus", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestStatusBoard_SetStatusDoesNotRefetch(t *testing.T) {
	api := new(MockCouponAPI)
	api.On("UpdateCouponStatus", mock.Anything, "c1", models.CouponPaid).Return(nil).Once()
	board := NewStatusBoard(api, sampleCoupons(), nil)

	_, err := board.SetStatus(context.Background(), "c1", models.CouponPaid)
	require.NoError(t, err)

	api.AssertNotCalled(t, "ListCoupons", mock.Anything)
	assert.Len(t, board.Coupons(), 4)
	assert.Equal(t, models.CouponPaid, board.Coupons()[0].Status)
}

func TestFilterCoupons(t *testing.T) {
	coupons := sampleCoupons()

	tests := []struct {
		name     string
		filter   CouponFilter
		expected []string
	}{
		{name: "no filter hides cancelled", filter: CouponFilter{}, expected: []string{"c1", "c2", "c4"}},
		{name: "all", filter: CouponFilter{Status: FilterAll, BookedBy: FilterAll}, expected: []string{"c1", "c2", "c4"}},
		{name: "by status", filter: CouponFilter{Status: "paid"}, expected: []string{"c2"}},
		{name: "cancelled never listed", filter: CouponFilter{Status: "cancelled"}, expected: []string{}},
		{name: "by booker", filter: CouponFilter{BookedBy: "A-101"}, expected: []string{"c2", "c4"}},
		{name: "by both", filter: CouponFilter{Status: "collected", BookedBy: "A-101"}, expected: []string{"c4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := []string{}
			for _, c := range FilterCoupons(coupons, tt.filter) {
				ids = append(ids, c.CouponID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}

	assert.False(t, CouponFilter{Status: FilterAll}.Active())
	assert.True(t, CouponFilter{BookedBy: "A-101"}.Active())
}

func TestBookers(t *testing.T) {
	assert.Equal(t, []string{"A-101", "B-202", "C-303"}, Bookers(sampleCoupons()))
	assert.Empty(t, Bookers(nil))
}

func TestCouponService_AdminListing(t *testing.T) {
	api := new(MockCouponAPI)
	api.On("ListCoupons", mock.Anything).Return(&models.CouponList{Count: 4, Coupons: sampleCoupons()}, nil).Once()
	api.On("UpdateCouponStatus", mock.Anything, "c2", models.CouponCollected).Return(nil).Once()

	s := NewCouponService(api, nil)
	list, board, err := s.AdminListing(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, list.Count)

	_, err = board.SetStatus(context.Background(), "c2", models.CouponCollected)
	require.NoError(t, err)
	api.AssertExpectations(t)
}

func TestCouponService_Errors(t *testing.T) {
	upstream := errors.New("unreachable")
	api := new(MockCouponAPI)
	api.On("ListCoupons", mock.Anything).Return(nil, upstream)
	api.On("ListUserCoupons", mock.Anything, "u1").Return(nil, upstream)

	s := NewCouponService(api, nil)

	_, _, err := s.AdminListing(context.Background())
	assert.ErrorIs(t, err, upstream)

	_, err = s.UserCoupons(context.Background(), "u1")
	assert.ErrorIs(t, err, upstream)
}
