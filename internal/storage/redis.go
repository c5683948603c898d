package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Veraticus/prdash/internal/model"
	"github.com/Veraticus/prdash/internal/service"
	"github.com/redis/go-redis/v9"
)

// RedisKeyPrefix namespaces approval hashes.
const RedisKeyPrefix = "prdash:approval:"

const (
	fieldApprovalDate    = "approvalDate"
	fieldRejectionDate   = "rejectionDate"
	fieldRejectionReason = "rejectionReason"
)

// RedisConfig selects the Redis server.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisStorage keeps approval metadata as one hash per negotiation.
type RedisStorage struct {
	client *redis.Client
}

var _ service.ApprovalStore = (*RedisStorage)(nil)

// NewRedisStorage connects to Redis and verifies the connection.
func NewRedisStorage(ctx context.Context, cfg RedisConfig) (*RedisStorage, error) {
	if err := validateString(cfg.Addr, "redis.addr"); err != nil {
		return nil, err
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return &RedisStorage{client: client}, nil
}

func redisKey(id int64) string {
	return RedisKeyPrefix + strconv.FormatInt(id, 10)
}

// Get returns the stored metadata for a negotiation, or nil when none exists.
func (r *RedisStorage) Get(ctx context.Context, id int64) (*model.ApprovalMeta, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id); err != nil {
		return nil, err
	}

	fields, err := r.client.HGetAll(ctx, redisKey(id)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to read approval metadata for %d: %w", id, err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	meta := &model.ApprovalMeta{RejectionReason: fields[fieldRejectionReason]}
	if meta.ApprovalDate, err = parseHashDate(fields[fieldApprovalDate]); err != nil {
		return nil, err
	}
	if meta.RejectionDate, err = parseHashDate(fields[fieldRejectionDate]); err != nil {
		return nil, err
	}
	return meta, nil
}

// Set replaces the stored metadata for a negotiation atomically.
func (r *RedisStorage) Set(ctx context.Context, id int64, meta model.ApprovalMeta) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id); err != nil {
		return err
	}
	if err := validateMeta(meta); err != nil {
		return err
	}

	values := make(map[string]any, 3)
	if meta.ApprovalDate != nil {
		values[fieldApprovalDate] = meta.ApprovalDate.String()
	}
	if meta.RejectionDate != nil {
		values[fieldRejectionDate] = meta.RejectionDate.String()
	}
	if meta.RejectionReason != "" {
		values[fieldRejectionReason] = meta.RejectionReason
	}

	key := redisKey(id)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(values) > 0 {
			pipe.HSet(ctx, key, values)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save approval metadata for %d: %w", id, err)
	}
	return nil
}

// Close closes the Redis client.
func (r *RedisStorage) Close() error {
	return r.client.Close()
}

func parseHashDate(s string) (*model.Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := model.ParseDate(s)
	if err != nil {
		return nil, fmt.Errorf("stored date: %w", err)
	}
	return d.Ptr(), nil
}
