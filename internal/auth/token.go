package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateToken mints an HS256 bearer token for a user.
func GenerateToken(secret, userID, userName string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"uid":   userID,
		"uname": userName,
		"exp":   time.Now().Add(ttl).Unix(),
		"iat":   time.Now().Unix(),
		"iss":   "liveroom",
		"sub":   "user-auth",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates a token and returns the user id and display name.
func ParseToken(secret, tokenStr string) (string, string, error) {
	if tokenStr == "" {
		return "", "", errors.New("token is empty")
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", errors.New("invalid claims")
	}

	uid, ok1 := claims["uid"].(string)
	uname, ok2 := claims["uname"].(string)
	if !ok1 || !ok2 || uid == "" {
		return "", "", errors.New("bad claims")
	}
	return uid, uname, nil
}
