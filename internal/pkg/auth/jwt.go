package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Reset token errors
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

const resetTokenPurpose = "admin-password-reset"

// ResetTokenConfig defines password reset token settings
type ResetTokenConfig struct {
	SecretKey   string
	Expiration  time.Duration
	TokenIssuer string
}

// ResetTokenService issues and validates admin password reset tokens
type ResetTokenService struct {
	config ResetTokenConfig
}

// NewResetTokenService creates a new reset token service
func NewResetTokenService(config ResetTokenConfig) *ResetTokenService {
	return &ResetTokenService{config: config}
}

// ResetClaims is the content of a password reset token. Fingerprint is derived from
// the password hash at issue time, so the token stops validating once the password changes.
type ResetClaims struct {
	AdminID     int64  `json:"adminId"`
	Email       string `json:"email"`
	Purpose     string `json:"purpose"`
	Fingerprint string `json:"fp"`
	jwt.RegisteredClaims
}

// PasswordFingerprint returns a short digest of a password hash
func PasswordFingerprint(passwordHash string) string {
	sum := sha256.Sum256([]byte(passwordHash))
	return hex.EncodeToString(sum[:8])
}

// Generate creates a signed reset token for the admin
func (s *ResetTokenService) Generate(adminID int64, email, passwordHash string) (string, error) {
	now := time.Now()
	claims := &ResetClaims{
		AdminID:     adminID,
		Email:       email,
		Purpose:     resetTokenPurpose,
		Fingerprint: PasswordFingerprint(passwordHash),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.Expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.config.TokenIssuer,
			Subject:   strconv.FormatInt(adminID, 10),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.SecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign reset token: %w", err)
	}
	return signed, nil
}

// Validate parses a reset token and checks its signature, expiry and purpose
func (s *ResetTokenService) Validate(tokenString string) (*ResetClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ResetClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.SecretKey), nil
	}, jwt.WithIssuer(s.config.TokenIssuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*ResetClaims)
	if !ok || !token.Valid || claims.Purpose != resetTokenPurpose {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Matches reports whether the token was issued against the given password hash
func (c *ResetClaims) Matches(passwordHash string) bool {
	return c.Fingerprint == PasswordFingerprint(passwordHash)
}
