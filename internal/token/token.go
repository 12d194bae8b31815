// Package token issues and validates the signed, time-limited tokens used by
// the user service: short-lived access tokens carrying a user snapshot,
// opaque refresh tokens, and purpose-claimed email-confirmation and
// password-reset tokens. All JWTs are HMAC-SHA256; a token minted for one
// purpose never validates for another.
package token

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"innoshop/internal/config"
)

const (
	Issuer   = "innoshop"
	Audience = "innoshop"

	PurposeEmailConfirmation = "email_confirmation"
	PurposePasswordReset     = "password_reset"
)

// ErrInvalidToken is the only error validation surfaces. Expiry, bad
// signature, wrong algorithm and wrong purpose are deliberately
// indistinguishable to the caller.
var ErrInvalidToken = errors.New("invalid or expired token")

var validMethods = []string{jwt.SigningMethodHS256.Alg()}

// UserSnapshot is the denormalized claim set embedded in access tokens.
// Downstream checks read these instead of calling back into the repository,
// so they can go stale until the next login or refresh.
type UserSnapshot struct {
	ID             uint
	Username       string
	Email          string
	Role           string
	IsActive       bool
	EmailConfirmed bool
}

type AccessClaims struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	IsActive       bool   `json:"isActive"`
	EmailConfirmed bool   `json:"emailConfirmed"`
	jwt.RegisteredClaims
}

// UserID decodes the subject claim.
func (c *AccessClaims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}

type purposeClaims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

type Service struct {
	secret      []byte
	emailSecret []byte
	accessTTL   time.Duration
	confirmTTL  time.Duration
	resetTTL    time.Duration
}

func NewService(cfg *config.JWTConfig) *Service {
	return &Service{
		secret:      []byte(cfg.Secret),
		emailSecret: []byte(cfg.EmailTokenSecret),
		accessTTL:   time.Duration(cfg.AccessExpiryMinutes) * time.Minute,
		confirmTTL:  time.Duration(cfg.ConfirmExpiryHours) * time.Hour,
		resetTTL:    time.Duration(cfg.ResetExpiryMinutes) * time.Minute,
	}
}

func (s *Service) GenerateAccessToken(user UserSnapshot) (string, error) {
	now := time.Now()
	claims := &AccessClaims{
		Username:       user.Username,
		Email:          user.Email,
		Role:           user.Role,
		IsActive:       user.IsActive,
		EmailConfirmed: user.EmailConfirmed,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			Issuer:    Issuer,
			Audience:  jwt.ClaimStrings{Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// ValidateAccessToken checks signature, algorithm, issuer, audience and
// lifetime.
func (s *Service) ValidateAccessToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods(validMethods),
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(Audience),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ParseExpiredAccessToken extracts claims from an access token whose
// lifetime may have elapsed. The signature and signing method are still
// verified; only the time-based claims are skipped. Used by the refresh
// flow.
func (s *Service) ParseExpiredAccessToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods(validMethods),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GenerateRefreshToken returns an opaque random value. It is persisted on
// the user row, not decoded by anyone.
func (s *Service) GenerateRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

func (s *Service) GenerateEmailConfirmationToken(userID uint) (string, error) {
	return s.generatePurposeToken(userID, PurposeEmailConfirmation, s.confirmTTL)
}

func (s *Service) ValidateEmailConfirmationToken(tokenString string) (uint, error) {
	return s.validatePurposeToken(tokenString, PurposeEmailConfirmation)
}

func (s *Service) GeneratePasswordResetToken(userID uint) (string, error) {
	return s.generatePurposeToken(userID, PurposePasswordReset, s.resetTTL)
}

func (s *Service) ValidatePasswordResetToken(tokenString string) (uint, error) {
	return s.validatePurposeToken(tokenString, PurposePasswordReset)
}

func (s *Service) generatePurposeToken(userID uint, purpose string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &purposeClaims{
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			Issuer:    Issuer,
			Audience:  jwt.ClaimStrings{Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.emailSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", purpose, err)
	}
	return signed, nil
}

func (s *Service) validatePurposeToken(tokenString, purpose string) (uint, error) {
	claims := &purposeClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return s.emailSecret, nil },
		jwt.WithValidMethods(validMethods),
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(Audience),
	)
	if err != nil || !parsed.Valid {
		return 0, ErrInvalidToken
	}
	if claims.Purpose != purpose {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return uint(userID), nil
}
