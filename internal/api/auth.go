package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/yantology/linkfy/internal/schema"
)

// AuthService handles the email/token authentication flow: a one-time
// token is mailed to the user, then exchanged together with the
// credentials during registration or password reset.
type AuthService struct {
	client *Client
}

// Token purposes accepted by RequestToken.
const (
	TokenPurposeRegistration   = "registration"
	TokenPurposeForgetPassword = "forget-password"
)

// TokenRequest asks the backend to mail a one-time token.
type TokenRequest struct {
	Type  string `json:"type"`
	Email string `json:"email"`
}

func (r TokenRequest) Validate() error {
	var c schema.Check
	if r.Type != TokenPurposeRegistration && r.Type != TokenPurposeForgetPassword {
		c.Add("type", "unknown token purpose")
	}
	validateEmail(&c, "email", r.Email)
	return c.Err()
}

// RegisterRequest creates an account using a mailed token.
type RegisterRequest struct {
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
	Token                string `json:"token"`
}

func (r RegisterRequest) Validate() error {
	var c schema.Check
	validateEmail(&c, "email", r.Email)
	c.NonEmpty("password", r.Password)
	if r.Password != r.PasswordConfirmation {
		c.Add("password_confirmation", "passwords do not match")
	}
	c.NonEmpty("token", r.Token)
	return c.Err()
}

// LoginRequest exchanges credentials for a session token.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	var c schema.Check
	validateEmail(&c, "email", r.Email)
	c.NonEmpty("password", r.Password)
	return c.Err()
}

// ResetPasswordRequest replaces a password using a mailed token.
type ResetPasswordRequest struct {
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
	Token                string `json:"token"`
}

func (r ResetPasswordRequest) Validate() error {
	var c schema.Check
	validateEmail(&c, "email", r.Email)
	c.NonEmpty("password", r.Password)
	if r.Password != r.PasswordConfirmation {
		c.Add("password_confirmation", "passwords do not match")
	}
	c.NonEmpty("token", r.Token)
	return c.Err()
}

// SessionToken is the credential returned by a successful login and
// revalidated by Refresh.
type SessionToken struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

func validateEmail(c *schema.Check, path, v string) {
	at := strings.Index(v, "@")
	if at <= 0 || at == len(v)-1 || !strings.Contains(v[at+1:], ".") {
		c.Add(path, "invalid email")
	}
}

// RequestToken asks the backend to mail a one-time token for the given
// purpose (registration or password reset).
// POST /auth/token
func (s *AuthService) RequestToken(ctx context.Context, req TokenRequest) (*MessageResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	body, err := s.client.post(ctx, "/auth/token", req)
	if err != nil {
		return nil, err
	}
	return decodeMessage(body)
}

// Register creates an account.
// POST /auth/register
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*MessageResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	body, err := s.client.post(ctx, "/auth/register", req)
	if err != nil {
		return nil, err
	}
	return decodeMessage(body)
}

// Login exchanges credentials for a session token.
// POST /auth/login
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*DataResponse[SessionToken], error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	body, err := s.client.post(ctx, "/auth/login", req)
	if err != nil {
		return nil, err
	}
	return decodeData(body, decodeSessionToken)
}

// ResetPassword replaces the password using a mailed token.
// POST /auth/forget-password
func (s *AuthService) ResetPassword(ctx context.Context, req ResetPasswordRequest) (*MessageResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	body, err := s.client.post(ctx, "/auth/forget-password", req)
	if err != nil {
		return nil, err
	}
	return decodeMessage(body)
}

// Refresh revalidates a session token against the backend.
// GET /auth/refresh
func (s *AuthService) Refresh(ctx context.Context, token string) (*DataResponse[SessionToken], error) {
	body, err := s.client.do(ctx, http.MethodGet, "/auth/refresh", token, nil)
	if err != nil {
		return nil, err
	}
	return decodeData(body, decodeSessionToken)
}

func decodeSessionToken(c *schema.Check, data json.RawMessage) SessionToken {
	var p struct {
		Token     *string `json:"token"`
		ExpiresAt *string `json:"expires_at"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		c.Add("data", "invalid object")
		return SessionToken{}
	}

	var out SessionToken
	if c.Required("data.token", p.Token != nil) {
		c.NonEmpty("data.token", *p.Token)
		out.Token = *p.Token
	}
	if c.Required("data.expires_at", p.ExpiresAt != nil) {
		c.Datetime("data.expires_at", *p.ExpiresAt)
		out.ExpiresAt = *p.ExpiresAt
	}
	return out
}
