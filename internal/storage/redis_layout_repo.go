package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/annel0/zonegrid/internal/logging"
	"github.com/go-redis/redis/v8"
)

// RedisLayoutRepo общий кеш раскладок для нескольких инстансов сервиса.
// Значения: тот же JSON+zstd, что и в BadgerDB, с TTL.
type RedisLayoutRepo struct {
	client    *redis.Client
	codec     *layoutCodec
	keyPrefix string
	ttl       time.Duration
}

// RedisConfig содержит настройки подключения к Redis
type RedisConfig struct {
	Addr      string        // Адрес Redis сервера
	Password  string        // Пароль (пустой если не требуется)
	DB        int           // Номер базы данных
	KeyPrefix string        // Префикс для ключей
	TTL       time.Duration // Время жизни записей (0: без истечения)
}

// DefaultRedisConfig возвращает конфигурацию по умолчанию
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Addr:      "localhost:6379",
		KeyPrefix: "zonegrid:layout:",
		TTL:       time.Hour,
	}
}

// NewRedisLayoutRepo подключается к Redis и проверяет соединение
func NewRedisLayoutRepo(ctx context.Context, config *RedisConfig) (*RedisLayoutRepo, error) {
	if config == nil {
		config = DefaultRedisConfig()
	}
	if config.KeyPrefix == "" {
		config.KeyPrefix = DefaultRedisConfig().KeyPrefix
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	codec, err := newLayoutCodec()
	if err != nil {
		client.Close()
		return nil, err
	}

	logging.Info("🔴 Connected to Redis at %s", config.Addr)
	return &RedisLayoutRepo{
		client:    client,
		codec:     codec,
		keyPrefix: config.KeyPrefix,
		ttl:       config.TTL,
	}, nil
}

// Save сохраняет раскладку с TTL
func (r *RedisLayoutRepo) Save(ctx context.Context, layout *Layout) error {
	if err := layout.Validate(); err != nil {
		return err
	}
	data, err := r.codec.encode(layout)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.keyPrefix+layout.Name, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save layout %s: %w", layout.Name, err)
	}
	return nil
}

// Load загружает раскладку
func (r *RedisLayoutRepo) Load(ctx context.Context, name string) (*Layout, error) {
	data, err := r.client.Get(ctx, r.keyPrefix+name).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%s: %w", name, ErrLayoutNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get layout %s: %w", name, err)
	}
	return r.codec.decode(data)
}

// Delete удаляет раскладку
func (r *RedisLayoutRepo) Delete(ctx context.Context, name string) error {
	n, err := r.client.Del(ctx, r.keyPrefix+name).Result()
	if err != nil {
		return fmt.Errorf("failed to delete layout %s: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", name, ErrLayoutNotFound)
	}
	return nil
}

// List перечисляет раскладки через SCAN (без блокирующего KEYS)
func (r *RedisLayoutRepo) List(ctx context.Context) ([]string, error) {
	var names []string
	iter := r.client.Scan(ctx, 0, r.keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		names = append(names, strings.TrimPrefix(iter.Val(), r.keyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan layouts: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Close закрывает соединение
func (r *RedisLayoutRepo) Close() error {
	r.codec.close()
	return r.client.Close()
}
