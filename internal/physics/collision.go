package physics

import (
	"github.com/annel0/zonegrid/internal/vec"
)

// CircleCircle проверяет пересечение двух кругов (касание не считается)
func CircleCircle(ax, az, ar, bx, bz, br float64) bool {
	a := vec.Vec2Float{X: ax, Z: az}
	rr := ar + br
	return a.DistanceSq(vec.Vec2Float{X: bx, Z: bz}) < rr*rr
}

// CircleBox проверяет пересечение круга (cx, cz, r) с боксом size в центре (bx, bz).
// Ближайшая точка бокса находится зажатием центра круга в его границы.
func CircleBox(cx, cz, r, bx, bz float64, size Size3) bool {
	hx, hz := extent(size.X/2), extent(size.Z/2)
	c := vec.Vec2Float{X: cx, Z: cz}
	nearest := c.Clamp(
		vec.Vec2Float{X: bx - hx, Z: bz - hz},
		vec.Vec2Float{X: bx + hx, Z: bz + hz},
	)
	return c.DistanceSq(nearest) < r*r
}

// Overlaps проверяет, пересекает ли круг агента (px, pz, r) форму в (x, z).
// Для неизвестного вида формы возвращает false.
func Overlaps(px, pz, r, x, z float64, shape Shape) bool {
	switch shape.Kind {
	case ShapeCircle:
		return CircleCircle(px, pz, r, x, z, extent(shape.Radius))
	case ShapeBox:
		return CircleBox(px, pz, r, x, z, shape.Size)
	default:
		return false
	}
}
