package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stakahashi/machinavi-backend/config"
	"github.com/stakahashi/machinavi-backend/pkg/logger"
)

var client *redis.Client

// ErrNotConnected Redisに接続していない状態で必須操作を呼んだ
var ErrNotConnected = errors.New("redisが利用できません")

// Redis未接続時のポータルセッション退避先。プロセス再起動で消える
var (
	localSessionMu sync.Mutex
	localSessions  = map[string]localSession{}
)

type localSession struct {
	editTokenID uint
	expiresAt   time.Time
}

// Init initializes Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	c := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		c.Close()
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	// 疎通確認が取れるまでclientは公開しない
	client = c

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

// BlacklistToken adds a JWT to the blacklist until its natural expiry
func BlacklistToken(ctx context.Context, token string, expiry time.Duration) error {
	if client == nil {
		return ErrNotConnected
	}

	logger.Debug("Adding token to blacklist", map[string]interface{}{
		"expiry": expiry.String(),
	})

	key := fmt.Sprintf("blacklist:%s", token)
	err := client.Set(ctx, key, "revoked", expiry).Err()
	if err != nil {
		logger.Error("Failed to blacklist token", err, nil)
		return err
	}

	return nil
}

// IsTokenBlacklisted checks if a JWT is in the blacklist
func IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	if client == nil {
		return false, nil
	}

	key := fmt.Sprintf("blacklist:%s", token)
	val, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		// Key does not exist - token is not blacklisted
		return false, nil
	}
	if err != nil {
		logger.Error("Failed to check token blacklist", err, nil)
		return false, err
	}

	return val == "revoked", nil
}

// SetPortalSession stores a short-lived owner portal session.
// The session is created after a password-gated edit token passes
// the email+password check, so the password is not re-sent per request.
func SetPortalSession(ctx context.Context, sessionID string, editTokenID uint, expiry time.Duration) error {
	if client == nil {
		localSessionMu.Lock()
		localSessions[sessionID] = localSession{
			editTokenID: editTokenID,
			expiresAt:   time.Now().Add(expiry),
		}
		localSessionMu.Unlock()
		return nil
	}

	key := fmt.Sprintf("portal:session:%s", sessionID)
	if err := client.Set(ctx, key, editTokenID, expiry).Err(); err != nil {
		logger.Error("Failed to store portal session", err, nil)
		return err
	}

	logger.Debug("Portal session stored", map[string]interface{}{
		"edit_token_id": editTokenID,
		"expiry":        expiry.String(),
	})
	return nil
}

// GetPortalSession resolves a portal session to its edit token ID.
// Returns (0, nil) when the session does not exist or has expired.
func GetPortalSession(ctx context.Context, sessionID string) (uint, error) {
	if client == nil {
		localSessionMu.Lock()
		defer localSessionMu.Unlock()
		s, ok := localSessions[sessionID]
		if !ok {
			return 0, nil
		}
		if time.Now().After(s.expiresAt) {
			delete(localSessions, sessionID)
			return 0, nil
		}
		return s.editTokenID, nil
	}

	key := fmt.Sprintf("portal:session:%s", sessionID)
	val, err := client.Get(ctx, key).Uint64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		logger.Error("Failed to resolve portal session", err, nil)
		return 0, err
	}

	return uint(val), nil
}

// DeletePortalSession removes a portal session (logout or token revocation)
func DeletePortalSession(ctx context.Context, sessionID string) error {
	if client == nil {
		localSessionMu.Lock()
		delete(localSessions, sessionID)
		localSessionMu.Unlock()
		return nil
	}

	key := fmt.Sprintf("portal:session:%s", sessionID)
	return client.Del(ctx, key).Err()
}
