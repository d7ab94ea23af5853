package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/annel0/zonegrid/internal/logging"
	"github.com/dgraph-io/badger/v3"
)

const layoutKeyPrefix = "layout:"

// BadgerLayoutRepo хранит раскладки комнат в BadgerDB (JSON + zstd)
type BadgerLayoutRepo struct {
	db      *badger.DB
	codec   *layoutCodec
	mutex   sync.RWMutex
	isReady bool
}

// NewBadgerLayoutRepo открывает хранилище в каталоге dataPath/layouts
func NewBadgerLayoutRepo(dataPath string) (*BadgerLayoutRepo, error) {
	opts := badger.DefaultOptions(filepath.Join(dataPath, "layouts"))
	return openBadgerLayoutRepo(opts)
}

// NewInMemoryBadgerLayoutRepo открывает BadgerDB без диска (тесты, временные комнаты)
func NewInMemoryBadgerLayoutRepo() (*BadgerLayoutRepo, error) {
	return openBadgerLayoutRepo(badger.DefaultOptions("").WithInMemory(true))
}

func openBadgerLayoutRepo(opts badger.Options) (*BadgerLayoutRepo, error) {
	opts.Logger = nil // Отключаем логирование BadgerDB

	codec, err := newLayoutCodec()
	if err != nil {
		return nil, err
	}

	db, err := badger.Open(opts)
	if err != nil {
		codec.close()
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	return &BadgerLayoutRepo{
		db:      db,
		codec:   codec,
		isReady: true,
	}, nil
}

func layoutKey(name string) []byte {
	return []byte(layoutKeyPrefix + name)
}

// Save сохраняет раскладку
func (r *BadgerLayoutRepo) Save(ctx context.Context, layout *Layout) error {
	if err := layout.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()
	if !r.isReady {
		return fmt.Errorf("хранилище не готово")
	}

	data, err := r.codec.encode(layout)
	if err != nil {
		return err
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(layoutKey(layout.Name), data)
	})
	if err != nil {
		return fmt.Errorf("сохранение раскладки %s: %w", layout.Name, err)
	}

	logging.Debug("Layout %s saved: %d props, %d zones, %d bytes",
		layout.Name, len(layout.Props), len(layout.Zones), len(data))
	return nil
}

// Load загружает раскладку
func (r *BadgerLayoutRepo) Load(ctx context.Context, name string) (*Layout, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()
	if !r.isReady {
		return nil, fmt.Errorf("хранилище не готово")
	}

	var data []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(layoutKey(name))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%s: %w", name, ErrLayoutNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("загрузка раскладки %s: %w", name, err)
	}

	return r.codec.decode(data)
}

// Delete удаляет раскладку
func (r *BadgerLayoutRepo) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()
	if !r.isReady {
		return fmt.Errorf("хранилище не готово")
	}

	err := r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(layoutKey(name)); err != nil {
			return err
		}
		return txn.Delete(layoutKey(name))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("%s: %w", name, ErrLayoutNotFound)
	}
	return err
}

// List возвращает имена раскладок
func (r *BadgerLayoutRepo) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()
	if !r.isReady {
		return nil, fmt.Errorf("хранилище не готово")
	}

	var names []string
	prefix := []byte(layoutKeyPrefix)
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().KeyCopy(nil)
			names = append(names, string(key[len(prefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(names)
	return names, nil
}

// Close закрывает хранилище данных
func (r *BadgerLayoutRepo) Close() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if !r.isReady {
		return nil
	}

	r.isReady = false
	r.codec.close()
	return r.db.Close()
}
