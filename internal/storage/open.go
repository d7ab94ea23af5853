package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/annel0/zonegrid/internal/config"
	"github.com/annel0/zonegrid/internal/logging"
	"github.com/google/uuid"
)

// Open создаёт хранилище раскладок по секции storage конфигурации
func Open(ctx context.Context, cfg config.StorageConfig) (LayoutRepo, error) {
	switch cfg.Backend {
	case "", "memory":
		logging.Info("💾 Layouts: in-memory storage")
		return NewMemoryLayoutRepo(), nil
	case "badger":
		logging.Info("💾 Layouts: BadgerDB at %s", cfg.BadgerPath)
		return NewBadgerLayoutRepo(cfg.BadgerPath)
	case "redis":
		return NewRedisLayoutRepo(ctx, redisConfigFrom(cfg))
	case "tiered":
		return openTiered(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func redisConfigFrom(cfg config.StorageConfig) *RedisConfig {
	rc := DefaultRedisConfig()
	rc.Addr = cfg.RedisAddr
	rc.DB = cfg.RedisDB
	rc.TTL = cfg.GetRedisTTL()
	return rc
}

// openTiered собирает Redis (hot) поверх BadgerDB (cold) и, если задан
// invalidation_url, подписку на инвалидации через NATS
func openTiered(ctx context.Context, cfg config.StorageConfig) (LayoutRepo, error) {
	cold, err := NewBadgerLayoutRepo(cfg.BadgerPath)
	if err != nil {
		return nil, err
	}
	hot, err := NewRedisLayoutRepo(ctx, redisConfigFrom(cfg))
	if err != nil {
		cold.Close()
		return nil, err
	}

	var inv Invalidator
	if cfg.InvalidationURL != "" {
		nodeID := cfg.NodeID
		if nodeID == "" {
			nodeID = uuid.NewString()
		}
		natsInv, err := NewNATSInvalidator(cfg.InvalidationURL, "", nodeID)
		if err != nil {
			hot.Close()
			cold.Close()
			return nil, err
		}
		inv = natsInv
	}

	repo, err := NewTieredLayoutRepo(ctx, hot, cold, inv)
	if err != nil {
		if inv != nil {
			inv.Close()
		}
		hot.Close()
		cold.Close()
		return nil, err
	}
	logging.Info("💾 Layouts: tiered Redis %s → BadgerDB %s", cfg.RedisAddr, cfg.BadgerPath)
	return repo, nil
}

// ImportDir сохраняет в repo все *.yaml / *.yml раскладки из каталога.
// Возвращает имена импортированных раскладок.
func ImportDir(ctx context.Context, repo LayoutRepo, dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("чтение каталога раскладок %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}

		layout, err := ReadLayoutFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return names, err
		}
		if layout.Name == "" {
			layout.Name = strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		}
		if err := repo.Save(ctx, layout); err != nil {
			return names, fmt.Errorf("импорт %s: %w", entry.Name(), err)
		}
		names = append(names, layout.Name)
	}

	sort.Strings(names)
	return names, nil
}
