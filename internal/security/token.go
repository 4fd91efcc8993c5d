package security

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const deviceTokenIssuer = "gymcal"

var (
	ErrInvalidDeviceToken = errors.New("invalid device token")
	errWeakSecret         = errors.New("secret must be at least 32 characters")
)

type DeviceClaims struct {
	jwt.RegisteredClaims
}

// IssueDeviceToken signs a token naming userID as subject. A zero ttl
// issues a token without expiry for the single paired device.
func IssueDeviceToken(secret []byte, userID uint, ttl time.Duration, now time.Time) (string, error) {
	if len(secret) < 32 {
		return "", errWeakSecret
	}
	claims := DeviceClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   deviceTokenIssuer,
			Subject:  strconv.FormatUint(uint64(userID), 10),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign device token: %w", err)
	}
	return signed, nil
}

func ParseDeviceToken(secret []byte, raw string) (uint, error) {
	claims := &DeviceClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(deviceTokenIssuer),
	)
	if err != nil || !token.Valid {
		return 0, ErrInvalidDeviceToken
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return 0, ErrInvalidDeviceToken
	}
	return uint(userID), nil
}

// ValidateSecret rejects empty, placeholder and short signing secrets.
func ValidateSecret(secret string) error {
	switch secret {
	case "", "change_me_in_production", "replace_with_at_least_32_random_characters":
		return errors.New("SECRET_KEY must be set to a random value")
	}
	if len(secret) < 32 {
		return errWeakSecret
	}
	return nil
}
