package collision

import "math"

// Options параметры движка
type Options struct {
	// CellSize размер ячейки сетки в мировых единицах
	CellSize float64
	// CollisionEpsilon допуск, позволяющий стоять ровно на верхней грани
	CollisionEpsilon float64
	// LandingTolerance допуск приземления (проверка чуть раньше касания)
	LandingTolerance float64
	// DefaultExtent полуразмер AABB для формы неизвестного вида
	DefaultExtent float64
	// UnboundedHeight высота формы без Height и Size.Y
	UnboundedHeight float64
	// DebugMaxHeight высота, которой заменяется бесконечная в отладочной геометрии
	DebugMaxHeight float64
}

// DefaultOptions возвращает параметры по умолчанию
func DefaultOptions() Options {
	return Options{
		CellSize:         10,
		CollisionEpsilon: 0.1,
		LandingTolerance: 0.5,
		DefaultExtent:    1,
		UnboundedHeight:  math.Inf(1),
		DebugMaxHeight:   20,
	}
}

// normalized подставляет значения по умолчанию вместо некорректных
func (o Options) normalized() Options {
	def := DefaultOptions()
	if o.CellSize <= 0 {
		o.CellSize = def.CellSize
	}
	if o.CollisionEpsilon < 0 {
		o.CollisionEpsilon = def.CollisionEpsilon
	}
	if o.LandingTolerance < 0 {
		o.LandingTolerance = def.LandingTolerance
	}
	if o.DefaultExtent <= 0 {
		o.DefaultExtent = def.DefaultExtent
	}
	if o.UnboundedHeight <= 0 {
		o.UnboundedHeight = def.UnboundedHeight
	}
	if o.DebugMaxHeight <= 0 {
		o.DebugMaxHeight = def.DebugMaxHeight
	}
	return o
}
