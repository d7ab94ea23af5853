package collision

import (
	"github.com/annel0/zonegrid/internal/physics"
	"github.com/annel0/zonegrid/internal/vec"
)

// CheckCollision проверяет, заблокирован ли круг агента (x, z, radius) на высоте y.
// Возвращает первый пересекающийся коллайдер или nil.
//
// Кандидаты берутся из ячейки точки и 8 соседних. Коллайдер, выходящий
// больше чем на одну ячейку за пределы окна 3×3, может быть не найден -
// это известное ограничение точности равномерной сетки, размер ячейки
// подбирается с его учётом.
//
// Если y >= top - CollisionEpsilon, агент стоит на коллайдере, а не упирается в него.
// WATER блокирует наравне с SOLID, не участвует только NONE.
func (e *Engine) CheckCollision(x, z, radius, y float64) *Collider {
	for _, id := range e.grid.neighborhood(x, z) {
		c := e.colliders[id]
		if c == nil || !c.Type.Blocks() {
			continue
		}
		if y >= c.Top(e.opts.UnboundedHeight)-e.opts.CollisionEpsilon {
			continue
		}
		if physics.Overlaps(x, z, radius, c.X, c.Z, c.Shape) {
			return c
		}
	}
	return nil
}

// GetNearbyColliders возвращает коллайдеры, центры которых не дальше
// searchRadius от точки (x, z), в порядке ID.
func (e *Engine) GetNearbyColliders(x, z, searchRadius float64) []*Collider {
	if searchRadius < 0 {
		searchRadius = 0
	}
	bounds := physics.AABB{
		MinX: x - searchRadius,
		MinZ: z - searchRadius,
		MaxX: x + searchRadius,
		MaxZ: z + searchRadius,
	}

	center := vec.Vec2Float{X: x, Z: z}
	limit := searchRadius * searchRadius

	var result []*Collider
	for _, id := range e.grid.idsInBounds(bounds) {
		c := e.colliders[id]
		if c == nil {
			continue
		}
		if center.DistanceSq(vec.Vec2Float{X: c.X, Z: c.Z}) <= limit {
			result = append(result, c)
		}
	}
	return result
}
