package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/redis/go-redis/v9"
	"github.com/signspeak/rt-glove-wrapper/internal/domain"
	"github.com/signspeak/rt-glove-wrapper/internal/secure"
)

// RedisStore keeps device settings in Redis so they survive service
// restarts. Records are encrypted at rest, calibration baselines identify
// a device. Entries expire after the TTL, a glove unused for days starts
// from factory calibration again.
type RedisStore struct {
	client  *redis.Client
	ttl     time.Duration
	crypter *secure.Crypter
}

// NewRedisStore creates a store with connection pooling.
func NewRedisStore(connStr string, encryptionKey string) (*RedisStore, error) {
	opt, err := redis.ParseURL(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	goapp.Log.Info().Str("redis", opt.Addr).Int("db", opt.DB).Send()
	rdb := redis.NewClient(opt)

	crypter, err := secure.NewCrypter(encryptionKey)
	if err != nil {
		return nil, fmt.Errorf("create crypter: %w", err)
	}

	return &RedisStore{
		client:  rdb,
		ttl:     time.Hour * 24 * 7,
		crypter: crypter,
	}, nil
}

func (r *RedisStore) keySettings(id string) string {
	return fmt.Sprintf("glove:settings:%s", id)
}

// GetSettings retrieves device settings, empty settings if none are stored.
func (r *RedisStore) GetSettings(ctx context.Context, device string) (*domain.DeviceSettings, error) {
	key := r.keySettings(device)
	bs, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return &domain.DeviceSettings{ID: device}, nil
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	data, err := r.crypter.Decrypt(bs)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}
	var s domain.DeviceSettings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// SaveSettings stores device settings as encrypted JSON.
func (r *RedisStore) SaveSettings(ctx context.Context, settings *domain.DeviceSettings) error {
	goapp.Log.Trace().Str("device", settings.ID).Msg("Save settings")
	key := r.keySettings(settings.ID)
	data, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	encrypted, err := r.crypter.Encrypt(data)
	if err != nil {
		return fmt.Errorf("encrypt: %w", err)
	}
	return r.client.Set(ctx, key, encrypted, r.ttl).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
