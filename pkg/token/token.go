package token

import (
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/hertz-contrib/jwt"

	"TripTogether/config"
	"TripTogether/pkg/errors"
)

const IdentityKey = "uid"

// общий инстанс для auth-middleware и этого пакета
var sharedGenerator *jwt.HertzJWTMiddleware

func Init() error {
	gen, err := jwt.New(&jwt.HertzJWTMiddleware{
		Key:         []byte(config.Cfg.JWTSecret),
		Timeout:     accessTTL(),
		MaxRefresh:  refreshTTL(),
		IdentityKey: IdentityKey,
		TimeFunc:    time.Now,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize token generator: %w", err)
	}

	sharedGenerator = gen
	return nil
}

// GetGenerator отдаёт общий генератор (нужен middleware)
func GetGenerator() *jwt.HertzJWTMiddleware {
	return sharedGenerator
}

func accessTTL() time.Duration {
	return time.Duration(config.Cfg.JWTExpireMinutes) * time.Minute
}

func refreshTTL() time.Duration {
	return time.Duration(config.Cfg.JWTRefreshDays) * 24 * time.Hour
}

func sign(claims jwtv5.MapClaims) (string, error) {
	return jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims).
		SignedString([]byte(config.Cfg.JWTSecret))
}

// GenerateTokenPair выпускает пару access/refresh токенов; refresh
// помечен claim'ом type, access без него
func GenerateTokenPair(userID string) (accessToken, refreshToken string, expiresIn int, err error) {
	if sharedGenerator == nil {
		return "", "", 0, errors.ErrTokenGeneratorNotInitialized
	}

	now := time.Now()
	accessExpiresAt := now.Add(accessTTL())

	accessToken, err = sign(jwtv5.MapClaims{
		IdentityKey: userID,
		"iat":       now.Unix(),
		"exp":       accessExpiresAt.Unix(),
	})
	if err != nil {
		return "", "", 0, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err = sign(jwtv5.MapClaims{
		IdentityKey: userID,
		"iat":       now.Unix(),
		"exp":       now.Add(refreshTTL()).Unix(),
		"type":      "refresh",
	})
	if err != nil {
		return "", "", 0, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	expiresIn = int(time.Until(accessExpiresAt).Seconds())
	if expiresIn < 0 {
		expiresIn = 0
	}
	return accessToken, refreshToken, expiresIn, nil
}

// ValidateRefreshToken проверяет подпись и тип refresh-токена и
// возвращает ID пользователя
func ValidateRefreshToken(tokenString string) (string, error) {
	parsed, err := jwtv5.ParseWithClaims(tokenString, jwtv5.MapClaims{}, func(t *jwtv5.Token) (interface{}, error) {
		if t.Method != jwtv5.SigningMethodHS256 {
			return nil, fmt.Errorf("%w: %v, expected HS256", errors.ErrUnexpectedSigningMethod, t.Header["alg"])
		}
		return []byte(config.Cfg.JWTSecret), nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}
	if !parsed.Valid {
		return "", errors.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwtv5.MapClaims)
	if !ok {
		return "", errors.ErrInvalidTokenClaims
	}
	if kind, _ := claims["type"].(string); kind != "refresh" {
		return "", errors.ErrInvalidTokenType
	}

	switch uid := claims[IdentityKey].(type) {
	case string:
		return uid, nil
	case float64:
		return fmt.Sprintf("%.0f", uid), nil
	default:
		return "", errors.ErrUserIDNotFound
	}
}
