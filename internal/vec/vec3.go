package vec

// Vec3Float представляет трехмерную точку: X, Z: плоскость земли, Y: высота
type Vec3Float struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// At поднимает точку плоскости на высоту y
func At(p Vec2Float, y float64) Vec3Float {
	return Vec3Float{X: p.X, Y: y, Z: p.Z}
}
