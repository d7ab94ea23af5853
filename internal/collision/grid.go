package collision

import (
	"math"
	"sort"

	"github.com/annel0/zonegrid/internal/physics"
)

// maxCellIndex ограничивает индекс ячейки: дальше координата не индексируется
const maxCellIndex = 1 << 30

// grid равномерная хеш-сетка: ячейка → множество ID коллайдеров.
// Пустые ячейки удаляются сразу.
type grid struct {
	cellSize float64
	cells    map[CellKey]map[ID]struct{}
}

func newGrid(cellSize float64) *grid {
	return &grid{
		cellSize: cellSize,
		cells:    make(map[CellKey]map[ID]struct{}),
	}
}

// keyFor возвращает ключ ячейки, содержащей точку
func (g *grid) keyFor(x, z float64) CellKey {
	return CellKey{
		X: int(math.Floor(x / g.cellSize)),
		Z: int(math.Floor(z / g.cellSize)),
	}
}

// cellRange переводит AABB в диапазон ячеек. ok=false для NaN, бесконечных
// и вывернутых границ, а также координат за пределами maxCellIndex.
func (g *grid) cellRange(b physics.AABB) (lo, hi CellKey, ok bool) {
	bounds := [4]float64{b.MinX / g.cellSize, b.MinZ / g.cellSize, b.MaxX / g.cellSize, b.MaxZ / g.cellSize}
	for _, v := range bounds {
		if math.IsNaN(v) || math.Abs(v) >= maxCellIndex {
			return lo, hi, false
		}
	}
	if b.MinX > b.MaxX || b.MinZ > b.MaxZ {
		return lo, hi, false
	}
	return g.keyFor(b.MinX, b.MinZ), g.keyFor(b.MaxX, b.MaxZ), true
}

// cellsForBounds возвращает ключи всех ячеек, пересекающихся с AABB (включительно)
func (g *grid) cellsForBounds(b physics.AABB) []CellKey {
	lo, hi, ok := g.cellRange(b)
	if !ok {
		return nil
	}

	keys := make([]CellKey, 0, (hi.X-lo.X+1)*(hi.Z-lo.Z+1))
	for x := lo.X; x <= hi.X; x++ {
		for z := lo.Z; z <= hi.Z; z++ {
			keys = append(keys, CellKey{X: x, Z: z})
		}
	}
	return keys
}

// insert добавляет id во все ячейки keys, создавая их при необходимости
func (g *grid) insert(id ID, keys []CellKey) {
	for _, key := range keys {
		cell, ok := g.cells[key]
		if !ok {
			cell = make(map[ID]struct{})
			g.cells[key] = cell
		}
		cell[id] = struct{}{}
	}
}

// remove удаляет id из ячеек keys и прунит опустевшие ячейки
func (g *grid) remove(id ID, keys []CellKey) {
	for _, key := range keys {
		cell, ok := g.cells[key]
		if !ok {
			continue
		}
		delete(cell, id)
		if len(cell) == 0 {
			delete(g.cells, key)
		}
	}
}

// neighborhood собирает ID из ячейки точки и 8 соседних (3×3).
// Результат без повторов и отсортирован, чтобы запросы были воспроизводимы.
func (g *grid) neighborhood(x, z float64) []ID {
	center, _, ok := g.cellRange(physics.AABB{MinX: x, MinZ: z, MaxX: x, MaxZ: z})
	if !ok {
		return nil
	}
	return g.collect(center.X-1, center.Z-1, center.X+1, center.Z+1)
}

// idsInBounds собирает ID из всех ячеек, покрывающих AABB
func (g *grid) idsInBounds(b physics.AABB) []ID {
	lo, hi, ok := g.cellRange(b)
	if !ok {
		return nil
	}
	return g.collect(lo.X, lo.Z, hi.X, hi.Z)
}

func (g *grid) collect(minX, minZ, maxX, maxZ int) []ID {
	var ids []ID
	seen := make(map[ID]struct{})
	for x := minX; x <= maxX; x++ {
		for z := minZ; z <= maxZ; z++ {
			for id := range g.cells[CellKey{X: x, Z: z}] {
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// contains проверяет, записан ли id в ячейке key
func (g *grid) contains(key CellKey, id ID) bool {
	_, ok := g.cells[key][id]
	return ok
}

func (g *grid) cellCount() int {
	return len(g.cells)
}

// entryCount суммарное число записей id по всем ячейкам
func (g *grid) entryCount() int {
	total := 0
	for _, cell := range g.cells {
		total += len(cell)
	}
	return total
}

func (g *grid) reset() {
	g.cells = make(map[CellKey]map[ID]struct{})
}
