package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/o1egl/paseto"
	"github.com/rs/zerolog/log"
)

const (
	// Set expiration time for clinician access tokens.
	AccessTokenExpiry = 24 * time.Hour
)

// TokenClaims identifies the clinician a request acts for.
type TokenClaims struct {
	DoctorID string    `json:"doctorId"`
	Expiry   time.Time `json:"expiry"`
}

// GenerateAccessToken issues a PASETO v2 local token for doctorID.
func GenerateAccessToken(symmetricKey []byte, doctorID string, now time.Time) (string, error) {
	if len(symmetricKey) != 32 {
		return "", fmt.Errorf("symmetric key must be 32 bytes long, got %d", len(symmetricKey))
	}
	claims := TokenClaims{
		DoctorID: doctorID,
		Expiry:   now.Add(AccessTokenExpiry),
	}
	token, err := paseto.NewV2().Encrypt(symmetricKey, claims, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

// ValidateToken decrypts tokenString and checks its expiry against now.
func ValidateToken(symmetricKey []byte, tokenString string, now time.Time) (*TokenClaims, error) {
	var claims TokenClaims
	if err := paseto.NewV2().Decrypt(tokenString, symmetricKey, &claims, nil); err != nil {
		log.Debug().Err(err).Msg("token decryption failed")
		return nil, fmt.Errorf("failed to decrypt token: %w", err)
	}

	if now.After(claims.Expiry) {
		return nil, errors.New("token expired")
	}
	if claims.DoctorID == "" {
		return nil, errors.New("token carries no clinician")
	}
	return &claims, nil
}
