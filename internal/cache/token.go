package cache

import (
	"context"
	"time"

	"TripTogether/config"
	"TripTogether/storage/redis"
)

const (
	tokenPrefix = "token"
)

// SetRefreshToken сохраняет refresh-токен пользователя.
// Key: ttg:token:refresh:{user_id}, TTL равен сроку жизни refresh-токена.
func SetRefreshToken(ctx context.Context, userID, refreshToken string) error {
	if !redis.Ready() {
		return nil
	}

	key := redis.Key(tokenPrefix, "refresh", userID)
	ttl := time.Duration(config.Cfg.JWTRefreshDays) * 24 * time.Hour

	return redis.Client().Set(ctx, key, refreshToken, ttl).Err()
}

func GetRefreshToken(ctx context.Context, userID string) (string, error) {
	key := redis.Key(tokenPrefix, "refresh", userID)
	return redis.Client().Get(ctx, key).Result()
}

// DeleteRefreshToken удаляет refresh-токен (логаут, ротация)
func DeleteRefreshToken(ctx context.Context, userID string) error {
	if !redis.Ready() {
		return nil
	}

	key := redis.Key(tokenPrefix, "refresh", userID)
	return redis.Client().Del(ctx, key).Err()
}

// ValidateRefreshTokenExists проверяет, что предъявленный refresh-токен
// совпадает с сохранённым. Несохранённый токен считается отозванным.
// Без Redis проверка отзыва пропускается, подпись JWT проверяется всё равно.
func ValidateRefreshTokenExists(ctx context.Context, userID, refreshToken string) bool {
	if !redis.Ready() {
		return true
	}

	storedToken, err := GetRefreshToken(ctx, userID)
	if err != nil {
		return false
	}
	return storedToken == refreshToken
}
