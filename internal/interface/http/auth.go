package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/edupulse/student-risk-hub/internal/domain/record"
	"github.com/edupulse/student-risk-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// AUTHENTICATION
// Mentors log in with email and password. A successful login returns a
// short-lived access token and a refresh token; the subject of both is
// the mentor ID. Protected routes require a Bearer access token.
// ══════════════════════════════════════════════════════════════════════════════

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"

	// minPasswordLength matches the login form's validation.
	minPasswordLength = 8
)

// authClaims are the JWT claims carried by mentor tokens.
type authClaims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// Authenticator verifies mentor credentials and issues JWT tokens.
type Authenticator struct {
	mentors    record.MentorRepository
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewAuthenticator creates an authenticator backed by the mentor store.
func NewAuthenticator(mentors record.MentorRepository, secret string, accessTTL, refreshTTL time.Duration) *Authenticator {
	return &Authenticator{
		mentors:    mentors,
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// Login checks the credentials and returns the mentor with fresh tokens.
func (a *Authenticator) Login(ctx context.Context, email, password string) (*record.Mentor, string, string, error) {
	if email == "" || password == "" {
		return nil, "", "", shared.NewDomainError("auth", "Login", shared.ErrValidation,
			"email and password are required")
	}
	if len(password) < minPasswordLength {
		return nil, "", "", shared.NewDomainError("auth", "Login", shared.ErrValidation,
			"password too short")
	}

	mentor, err := a.mentors.GetByEmail(ctx, email)
	if err != nil {
		// Do not reveal whether the account exists.
		return nil, "", "", shared.ErrBadCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(mentor.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", shared.ErrBadCredentials
	}

	access, err := a.issueToken(mentor.ID, tokenTypeAccess, a.accessTTL)
	if err != nil {
		return nil, "", "", err
	}
	refresh, err := a.issueToken(mentor.ID, tokenTypeRefresh, a.refreshTTL)
	if err != nil {
		return nil, "", "", err
	}

	return mentor, access, refresh, nil
}

// VerifyAccessToken validates an access token and returns the mentor ID.
func (a *Authenticator) VerifyAccessToken(tokenString string) (string, error) {
	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(a.now))
	if err != nil || !token.Valid {
		return "", shared.NewDomainError("auth", "Verify", shared.ErrUnauthorized,
			"invalid or expired token")
	}
	if claims.TokenType != tokenTypeAccess {
		return "", shared.NewDomainError("auth", "Verify", shared.ErrUnauthorized,
			"refresh token cannot be used for access")
	}
	return claims.Subject, nil
}

// HashPassword hashes a mentor password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (a *Authenticator) issueToken(mentorID, tokenType string, ttl time.Duration) (string, error) {
	now := a.now().UTC()
	claims := authClaims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   mentorID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", shared.WrapError("auth", "issueToken", shared.ErrExternalService,
			"token signing", err)
	}
	return signed, nil
}

// requireAuth rejects requests without a valid Bearer access token and
// stores the mentor ID in the request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.deps.Auth == nil {
			writeJSONError(w, http.StatusServiceUnavailable, "auth_unavailable", "Authentication is not configured")
			return
		}

		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing bearer token")
			return
		}

		mentorID, err := s.deps.Auth.VerifyAccessToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyMentorID, mentorID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
