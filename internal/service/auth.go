package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"krishimitra/internal/logger"
	"krishimitra/internal/model"
)

// AuthService wraps the registration, login and phone OTP endpoints. On a
// successful login it installs the bearer token on the shared backend so
// subsequent calls are authenticated.
type AuthService struct {
	b *Backend
}

func NewAuthService(b *Backend) *AuthService { return &AuthService{b: b} }

// Session is the locally held login state.
type Session struct {
	Token     string     `json:"token"`
	User      model.User `json:"user"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// Expired reports whether the token's exp claim has passed. Sessions without
// an exp claim never expire locally; the server still has the final say.
func (s *Session) Expired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

func (a *AuthService) Register(ctx context.Context, email, name, password string) (*Session, error) {
	var resp model.LoginResponse
	req := model.RegisterRequest{Email: email, Name: name, Password: password}
	if err := a.b.doJSON(ctx, http.MethodPost, "/api/auth/register", req, &resp); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return a.install(resp.AccessToken, resp.User), nil
}

func (a *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	var resp model.LoginResponse
	req := model.LoginRequest{Email: email, Password: password}
	if err := a.b.doJSON(ctx, http.MethodPost, "/api/auth/login", req, &resp); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return a.install(resp.AccessToken, resp.User), nil
}

func (a *AuthService) Me(ctx context.Context) (*model.User, error) {
	var u model.User
	if err := a.b.doJSON(ctx, http.MethodGet, "/api/auth/me", nil, &u); err != nil {
		return nil, fmt.Errorf("me: %w", err)
	}
	return &u, nil
}

func (a *AuthService) SendOTP(ctx context.Context, phone, countryCode string) (*model.SendOTPResponse, error) {
	if countryCode == "" {
		countryCode = "+91"
	}
	var resp model.SendOTPResponse
	req := model.SendOTPRequest{PhoneNumber: phone, CountryCode: countryCode}
	if err := a.b.doJSON(ctx, http.MethodPost, "/api/auth/send-otp", req, &resp); err != nil {
		return nil, fmt.Errorf("send otp: %w", err)
	}
	return &resp, nil
}

func (a *AuthService) VerifyOTP(ctx context.Context, sessionID, code string) (*Session, error) {
	var resp model.VerifyOTPResponse
	req := model.VerifyOTPRequest{SessionID: sessionID, OTPCode: code}
	if err := a.b.doJSON(ctx, http.MethodPost, "/api/auth/verify-otp", req, &resp); err != nil {
		return nil, fmt.Errorf("verify otp: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("verify otp: %s", resp.Error)
	}
	return a.install(resp.AccessToken, resp.User), nil
}

// Resume installs a previously saved session. Expired sessions are rejected
// so the caller can prompt for a fresh login.
func (a *AuthService) Resume(sess *Session) error {
	if sess.Expired() {
		return fmt.Errorf("session expired at %s", sess.ExpiresAt.Format(time.RFC3339))
	}
	a.b.SetToken(sess.Token)
	return nil
}

func (a *AuthService) Logout() { a.b.SetToken("") }

func (a *AuthService) install(token string, user model.User) *Session {
	a.b.SetToken(token)
	sess := &Session{Token: token, User: user, ExpiresAt: tokenExpiry(token)}
	logger.Info("auth.session", "user", user.ID, "expires_at", sess.ExpiresAt)
	return sess
}

// tokenExpiry reads the exp claim without verifying the signature. The
// client only uses it to schedule re-login; it never trusts the token.
func tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

// SaveSession writes the session to disk so the CLI survives restarts.
func SaveSession(path string, sess *Session) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

func LoadSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}
