package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"coupon-portal/internal/logger"
	"coupon-portal/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FailurePolicy decides what happens to items whose booking failed
type FailurePolicy int

const (
	// RetainFailed keeps failed items in the cart so the resident can retry them
	RetainFailed FailurePolicy = iota
	// DiscardAll empties the cart after every submission, failed items included
	DiscardAll
)

// ParseFailurePolicy maps the CART_FAILURE_POLICY setting to a policy
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "retain":
		return RetainFailed, nil
	case "discard":
		return DiscardAll, nil
	}
	return RetainFailed, fmt.Errorf("unknown cart failure policy %q", s)
}

func (p FailurePolicy) String() string {
	if p == DiscardAll {
		return "discard"
	}
	return "retain"
}

// ErrBookingNotCreated is returned when the coupon API answers a booking with
// a success status other than 201 Created
var ErrBookingNotCreated = errors.New("booking was not created")

// ItemOutcome is the result of submitting one cart item
type ItemOutcome struct {
	Item   models.CartItem
	Status int
	Err    error
}

// Booked reports whether the coupon API created the booking
func (o ItemOutcome) Booked() bool {
	return o.Err == nil
}

// SubmitReport describes a whole cart submission
type SubmitReport struct {
	Outcomes []ItemOutcome
	// Discarded holds failed items dropped from the cart under DiscardAll
	Discarded []models.CartItem
}

// Booked returns the items that were booked, in cart order
func (r *SubmitReport) Booked() []models.CartItem {
	var items []models.CartItem
	for _, o := range r.Outcomes {
		if o.Booked() {
			items = append(items, o.Item)
		}
	}
	return items
}

// Failed returns the outcomes that did not book, in cart order
func (r *SubmitReport) Failed() []ItemOutcome {
	var failed []ItemOutcome
	for _, o := range r.Outcomes {
		if !o.Booked() {
			failed = append(failed, o)
		}
	}
	return failed
}

// AllBooked reports whether every item was booked
func (r *SubmitReport) AllBooked() bool {
	return len(r.Failed()) == 0
}

// CartService holds the booking cart rules
type CartService struct {
	booker Booker
	policy FailurePolicy
	newID  func() string
	log    *zap.Logger
}

// NewCartService creates a cart service that books through booker
func NewCartService(booker Booker, policy FailurePolicy, log *zap.Logger) *CartService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CartService{
		booker: booker,
		policy: policy,
		newID:  uuid.NewString,
		log:    log,
	}
}

// Policy returns the configured failure policy
func (s *CartService) Policy() FailurePolicy {
	return s.policy
}

// Add appends a new item to cart. Invalid input leaves the cart untouched and
// returns an error wrapping models.ErrInvalidCartItem.
func (s *CartService) Add(cart *models.Cart, day time.Time, meal models.Meal, preference models.Preference, quantity int) (*models.CartItem, error) {
	item := models.CartItem{
		Day:        day,
		Meal:       meal,
		Preference: preference,
		Quantity:   quantity,
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}

	item.ID = s.newID()
	cart.Items = append(cart.Items, item)
	return &cart.Items[len(cart.Items)-1], nil
}

// Remove deletes the item with id and reports whether it was present
func (s *CartService) Remove(cart *models.Cart, id string) bool {
	for i := range cart.Items {
		if cart.Items[i].ID == id {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			return true
		}
	}
	return false
}

// Submit books every item of cart, one request at a time and in cart order.
// Each item is booked whole or not at all; nothing already booked is rolled back.
// Afterwards cart holds exactly the failed items under RetainFailed, or nothing
// under DiscardAll.
func (s *CartService) Submit(ctx context.Context, cart *models.Cart) (*SubmitReport, error) {
	if cart.IsEmpty() {
		return nil, models.ErrEmptyCart
	}

	log := logger.For(ctx, s.log)
	snapshot := make([]models.CartItem, len(cart.Items))
	copy(snapshot, cart.Items)

	log.Info("submitting cart",
		zap.Int("items", cart.Len()),
		zap.Int("coupons", cart.TotalQuantity()),
		zap.String("policy", s.policy.String()),
	)

	report := &SubmitReport{Outcomes: make([]ItemOutcome, 0, len(snapshot))}
	for _, item := range snapshot {
		outcome := s.book(ctx, item)
		report.Outcomes = append(report.Outcomes, outcome)

		if outcome.Booked() {
			log.Info("cart item booked",
				zap.String("item_id", item.ID),
				zap.String("meal", string(item.Meal)),
				zap.Int("quantity", item.Quantity),
			)
		} else {
			log.Warn("cart item booking failed",
				zap.String("item_id", item.ID),
				zap.Int("status", outcome.Status),
				zap.Error(outcome.Err),
			)
		}
	}

	failed := report.Failed()
	remaining := make([]models.CartItem, 0, len(failed))
	for _, o := range failed {
		remaining = append(remaining, o.Item)
	}

	switch s.policy {
	case DiscardAll:
		report.Discarded = remaining
		cart.Items = nil
		if len(remaining) > 0 {
			log.Warn("discarding failed cart items", zap.Int("count", len(remaining)))
		}
	default:
		cart.Items = remaining
	}

	return report, nil
}

func (s *CartService) book(ctx context.Context, item models.CartItem) ItemOutcome {
	outcome := ItemOutcome{Item: item}
	if err := ctx.Err(); err != nil {
		outcome.Err = err
		return outcome
	}

	status, err := s.booker.BookCoupon(ctx, item.BookingRequest())
	outcome.Status = status
	switch {
	case err != nil:
		outcome.Err = err
	case status != http.StatusCreated:
		outcome.Err = fmt.Errorf("%w: status %d", ErrBookingNotCreated, status)
	}
	return outcome
}
