package collision

import "github.com/annel0/zonegrid/internal/physics"

// CheckLanding ищет самую высокую поверхность под агентом, на которую можно встать.
// WATER и NONE не рассматриваются. Поверхность подходит, если агент пересекает
// её по XZ и y >= top - LandingTolerance. При нескольких подходящих платформах
// выигрывает самая высокая, а не первая найденная.
func (e *Engine) CheckLanding(x, z, y, radius float64) Landing {
	var best Landing
	for _, id := range e.grid.neighborhood(x, z) {
		c := e.colliders[id]
		if c == nil || !c.Type.Standable() {
			continue
		}
		if !physics.Overlaps(x, z, radius, c.X, c.Z, c.Shape) {
			continue
		}
		top := c.Top(e.opts.UnboundedHeight)
		if y < top-e.opts.LandingTolerance {
			continue
		}
		if !best.CanLand || top > best.LandingY {
			best = Landing{CanLand: true, LandingY: top, Collider: c}
		}
	}
	return best
}
