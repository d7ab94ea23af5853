package collision

import (
	"math"

	"github.com/annel0/zonegrid/internal/physics"
	"github.com/annel0/zonegrid/internal/vec"
)

// DebugPrimitive примитив для отрисовки каркаса коллайдера или триггера.
// Center.Y: середина по высоте, чтобы рендер рисовал примитив от земли.
type DebugPrimitive struct {
	ID     ID            `json:"id"`
	Kind   string        `json:"kind"` // cylinder | box | bounds
	Type   string        `json:"type"`
	Center vec.Vec3Float `json:"center"`
	Radius float64       `json:"radius,omitempty"`
	Size   physics.Size3 `json:"size"`
	Height float64       `json:"height"`
	Color  string        `json:"color"`
	Inside bool          `json:"inside,omitempty"`
	Cells  int           `json:"cells,omitempty"`
}

// DebugMesh отладочная геометрия движка
type DebugMesh struct {
	Colliders []DebugPrimitive `json:"colliders"`
	Triggers  []DebugPrimitive `json:"triggers"`
	CellSize  float64          `json:"cellSize"`
}

var debugColors = map[ColliderType]string{
	TypeNone:       "#808080",
	TypeSolid:      "#ff3030",
	TypeWater:      "#3080ff",
	TypeTrigger:    "#ffd700",
	TypeDecoration: "#30c030",
	TypeWall:       "#ff8c00",
}

const triggerActiveColor = "#ff30ff"

// DebugMesh строит примитивы по текущему состоянию движка. Состояние не меняется.
func (e *Engine) DebugMesh() DebugMesh {
	mesh := DebugMesh{
		Colliders: make([]DebugPrimitive, 0, len(e.colliders)),
		Triggers:  make([]DebugPrimitive, 0, len(e.triggers)),
		CellSize:  e.opts.CellSize,
	}

	for _, c := range e.Colliders() {
		p := e.primitive(c.ID, c.X, c.Z, c.Shape)
		p.Type = c.Type.String()
		p.Color = debugColors[c.Type]
		p.Cells = len(c.Cells)
		mesh.Colliders = append(mesh.Colliders, p)
	}

	for _, t := range e.Triggers() {
		p := e.primitive(t.ID, t.X, t.Z, t.Shape)
		p.Type = TypeTrigger.String()
		p.Color = debugColors[TypeTrigger]
		if t.WasInside {
			p.Color = triggerActiveColor
			p.Inside = true
		}
		mesh.Triggers = append(mesh.Triggers, p)
	}

	return mesh
}

func (e *Engine) primitive(id ID, x, z float64, shape physics.Shape) DebugPrimitive {
	height := shape.TopHeight(e.opts.UnboundedHeight)
	if math.IsInf(height, 0) || height > e.opts.DebugMaxHeight {
		height = e.opts.DebugMaxHeight
	}

	p := DebugPrimitive{
		ID:     id,
		Center: vec.At(vec.Vec2Float{X: x, Z: z}, height/2),
		Height: height,
	}

	switch shape.Kind {
	case physics.ShapeCircle:
		p.Kind = "cylinder"
		p.Radius = shape.Radius
		p.Size = physics.Size3{X: shape.Radius * 2, Y: height, Z: shape.Radius * 2}
	case physics.ShapeBox:
		p.Kind = "box"
		p.Size = physics.Size3{X: shape.Size.X, Y: height, Z: shape.Size.Z}
	default:
		b := shape.Bounds(x, z, e.opts.DefaultExtent)
		p.Kind = "bounds"
		p.Size = physics.Size3{X: b.MaxX - b.MinX, Y: height, Z: b.MaxZ - b.MinZ}
	}
	return p
}
