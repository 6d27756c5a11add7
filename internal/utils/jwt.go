package utils

import (
	"errors"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var jwtSecret []byte

const resetTokenTTL = 30 * time.Minute

// InitJWT installs the signing secret. Called once from main after config load.
func InitJWT(secret string) {
	jwtSecret = []byte(secret)
}

type Claims struct {
	UserID   string `json:"userId"`
	Role     string `json:"role"`
	FullName string `json:"fullName"`
	jwt.RegisteredClaims
}

// ResetClaims carry the password-reset token. Subject is the account email;
// ID is mirrored into the user document so each token is single-use.
type ResetClaims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// GenerateJWT creates a new session token for a given user.
func GenerateJWT(userID, role, fullName string) (string, error) {
	if len(jwtSecret) == 0 {
		log.Println("CRITICAL: JWT_SECRET is not configured. Cannot generate token.")
		return "", errors.New("JWT_SECRET is not configured")
	}
	expirationTime := time.Now().Add(24 * time.Hour)
	claims := &Claims{
		UserID:   userID,
		Role:     role,
		FullName: fullName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ValidateJWT validates a given session token string.
func ValidateJWT(tokenStr string) (*Claims, error) {
	if len(jwtSecret) == 0 {
		log.Println("CRITICAL: JWT_SECRET is not configured. Cannot validate token.")
		return nil, errors.New("JWT_SECRET is not configured")
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	})

	if err != nil || !token.Valid {
		return nil, err
	}

	return claims, nil
}

// GenerateResetToken issues a 30-minute password-reset token for the given
// email and returns the token together with its jti.
func GenerateResetToken(email string) (token string, jti string, err error) {
	if len(jwtSecret) == 0 {
		return "", "", errors.New("JWT_SECRET is not configured")
	}
	jti = uuid.NewString()
	claims := &ResetClaims{
		Purpose: "password-reset",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(resetTokenTTL)),
		},
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
	return token, jti, err
}

// ValidateResetToken checks signature, purpose and expiry, returning the
// email and jti. The jti must still be compared against the user record.
func ValidateResetToken(tokenStr string) (email string, jti string, err error) {
	if len(jwtSecret) == 0 {
		return "", "", errors.New("JWT_SECRET is not configured")
	}
	claims := &ResetClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", "", errors.New("invalid or expired reset token")
	}
	if claims.Purpose != "password-reset" || claims.Subject == "" || claims.ID == "" {
		return "", "", errors.New("invalid or expired reset token")
	}
	return claims.Subject, claims.ID, nil
}
