package auth

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// DisplayClaims are identity fields read from a session token WITHOUT verifying
// its signature. They only decide which links and buttons to render; the coupon
// API is the only place where access is enforced.
type DisplayClaims struct {
	UserID     string
	FlatNumber string
	IsAdmin    bool
	ExpiresAt  time.Time
}

// Expired reports whether the token's exp claim is before now
func (c *DisplayClaims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

var unverified = jwt.NewParser()

// ReadClaims decodes the payload of token. ok is false when token is not a
// decodable JWT.
func ReadClaims(token string) (*DisplayClaims, bool) {
	if token == "" {
		return nil, false
	}

	mapClaims := jwt.MapClaims{}
	if _, _, err := unverified.ParseUnverified(token, mapClaims); err != nil {
		return nil, false
	}

	claims := &DisplayClaims{
		UserID:     claimString(mapClaims["user_id"]),
		FlatNumber: claimString(mapClaims["flat_number"]),
		IsAdmin:    claimBool(mapClaims["is_admin"]),
	}
	if exp, ok := claimNumber(mapClaims["exp"]); ok {
		claims.ExpiresAt = time.Unix(exp, 0)
	}
	return claims, true
}

func claimString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}

func claimBool(v interface{}) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		b, _ := strconv.ParseBool(val)
		return b
	case float64:
		return val != 0
	}
	return false
}

func claimNumber(v interface{}) (int64, bool) {
	switch val := v.(type) {
	case float64:
		return int64(val), true
	case json.Number:
		n, err := val.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(val, 10, 64)
		return n, err == nil
	}
	return 0, false
}
