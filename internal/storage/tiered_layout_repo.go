package storage

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/annel0/zonegrid/internal/logging"
)

// Invalidator рассылает имена изменённых раскладок между инстансами сервиса
type Invalidator interface {
	PublishInvalidation(ctx context.Context, name string) error
	SubscribeInvalidations(ctx context.Context, handler func(name string)) error
	Close() error
}

// TieredLayoutRepo двухуровневое хранилище: hot (Redis) поверх cold (BadgerDB).
// Чтение идёт из hot, промах дочитывается из cold и кладётся в hot.
// Запись и удаление идут в cold, затем hot; соседние инстансы узнают
// об изменении через Invalidator и сбрасывают свою hot-копию.
type TieredLayoutRepo struct {
	hot  LayoutRepo
	cold LayoutRepo
	inv  Invalidator // может быть nil

	hits   uint64
	misses uint64
}

// TieredStats счётчики попаданий в hot-уровень
type TieredStats struct {
	Hits   uint64
	Misses uint64
}

// NewTieredLayoutRepo собирает двухуровневое хранилище. inv может быть nil.
func NewTieredLayoutRepo(ctx context.Context, hot, cold LayoutRepo, inv Invalidator) (*TieredLayoutRepo, error) {
	r := &TieredLayoutRepo{hot: hot, cold: cold, inv: inv}
	if inv != nil {
		if err := inv.SubscribeInvalidations(ctx, r.dropHot); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Save сохраняет раскладку в оба уровня
func (r *TieredLayoutRepo) Save(ctx context.Context, layout *Layout) error {
	if err := r.cold.Save(ctx, layout); err != nil {
		return err
	}
	if err := r.hot.Save(ctx, layout); err != nil {
		// cold уже актуален, hot дочитается при следующем Load
		logging.Warn("Tiered: hot save %s: %v", layout.Name, err)
		r.dropHot(layout.Name)
	}
	r.invalidate(ctx, layout.Name)
	return nil
}

// Load читает из hot, при промахе из cold
func (r *TieredLayoutRepo) Load(ctx context.Context, name string) (*Layout, error) {
	layout, err := r.hot.Load(ctx, name)
	if err == nil {
		atomic.AddUint64(&r.hits, 1)
		return layout, nil
	}
	if !errors.Is(err, ErrLayoutNotFound) {
		logging.Warn("Tiered: hot load %s: %v", name, err)
	}
	atomic.AddUint64(&r.misses, 1)

	layout, err = r.cold.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := r.hot.Save(ctx, layout); err != nil {
		logging.Warn("Tiered: hot fill %s: %v", name, err)
	}
	return layout, nil
}

// Delete удаляет раскладку из обоих уровней
func (r *TieredLayoutRepo) Delete(ctx context.Context, name string) error {
	if err := r.cold.Delete(ctx, name); err != nil {
		return err
	}
	r.dropHot(name)
	r.invalidate(ctx, name)
	return nil
}

// List перечисляет раскладки по cold-уровню (hot может быть неполным)
func (r *TieredLayoutRepo) List(ctx context.Context) ([]string, error) {
	return r.cold.List(ctx)
}

// Close закрывает уровни и инвалидатор
func (r *TieredLayoutRepo) Close() error {
	var errs []error
	if r.inv != nil {
		errs = append(errs, r.inv.Close())
	}
	errs = append(errs, r.hot.Close(), r.cold.Close())
	return errors.Join(errs...)
}

// Stats возвращает счётчики попаданий
func (r *TieredLayoutRepo) Stats() TieredStats {
	return TieredStats{
		Hits:   atomic.LoadUint64(&r.hits),
		Misses: atomic.LoadUint64(&r.misses),
	}
}

func (r *TieredLayoutRepo) dropHot(name string) {
	err := r.hot.Delete(context.Background(), name)
	if err != nil && !errors.Is(err, ErrLayoutNotFound) {
		logging.Warn("Tiered: hot drop %s: %v", name, err)
	}
}

func (r *TieredLayoutRepo) invalidate(ctx context.Context, name string) {
	if r.inv == nil {
		return
	}
	if err := r.inv.PublishInvalidation(ctx, name); err != nil {
		logging.Warn("Tiered: invalidation %s: %v", name, err)
	}
}
