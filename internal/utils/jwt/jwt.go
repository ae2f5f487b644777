package jwt

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mdrrmo/bantay-api/internal/domain"
	internal_errors "github.com/mdrrmo/bantay-api/internal/errors"
	"github.com/mdrrmo/bantay-api/internal/logger"
)

type JwtService interface {
	NewToken(user domain.User) (string, error)
	UserIdFromToken(jwtStr string) (domain.UserId, error)
}

type Jwt struct {
	secretKey string
	ttl       time.Duration
}

func New(secretKey string, ttl time.Duration) *Jwt {
	return &Jwt{secretKey, ttl}
}

func (j *Jwt) NewToken(user domain.User) (string, error) {
	claims := jwt.MapClaims{
		"uid": user.Id,
		"exp": time.Now().Add(j.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		logger.Log.Error("failed to sign token", "error", err)
		return "", err
	}
	return tokenString, nil
}

// UserIdFromToken validates signature and expiry and returns the uid claim.
func (j *Jwt) UserIdFromToken(jwtStr string) (domain.UserId, error) {
	token, err := jwt.Parse(jwtStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil || !token.Valid {
		return 0, &internal_errors.ErrorWithStatusCode{Message: "Invalid access token.", StatusCode: http.StatusUnauthorized}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, &internal_errors.ErrorWithStatusCode{Message: "Invalid access token.", StatusCode: http.StatusUnauthorized}
	}
	uid, ok := claims["uid"].(float64)
	if !ok {
		return 0, &internal_errors.ErrorWithStatusCode{Message: "Invalid access token.", StatusCode: http.StatusUnauthorized}
	}
	return domain.UserId(uid), nil
}
