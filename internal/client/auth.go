package client

import (
	"context"
	"errors"
)

// Credentials identifies a flat
type Credentials struct {
	FlatNumber string `json:"flat_number"`
	Password   string `json:"password"`
}

// SignupRequest registers a flat; email is optional
type SignupRequest struct {
	FlatNumber string  `json:"flat_number"`
	Password   *string `json:"password"`
	Email      *string `json:"email"`
}

type loginResponse struct {
	TokenType   string `json:"token_type"`
	AccessToken string `json:"access_token"`
}

type signupResponse struct {
	Token string `json:"token"`
}

var errNoToken = errors.New("coupon api returned no token")

// Login exchanges credentials for a session token
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	var resp loginResponse
	if _, err := c.Post(ctx, "/login/", creds, &resp); err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", errNoToken
	}
	return resp.AccessToken, nil
}

// Signup creates an account and returns its session token
func (c *Client) Signup(ctx context.Context, req SignupRequest) (string, error) {
	var resp signupResponse
	if _, err := c.Post(ctx, "/signup/", req, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", errNoToken
	}
	return resp.Token, nil
}
