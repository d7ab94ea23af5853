package api

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/annel0/zonegrid/internal/collision"
	"github.com/annel0/zonegrid/internal/physics"
	"github.com/gin-gonic/gin"
)

// Ограничения на размеры из запросов в ячейках сетки комнаты:
// запрос не должен держать блокировку комнаты, обходя миллионы ячеек.
const (
	maxNearbyCells   = 8
	maxColliderCells = 256
)

// errInvalidInput ошибка проверки запроса, отдаётся как 400
var errInvalidInput = errors.New("invalid input")

// checkShape проверяет форму из запроса и её размер относительно ячейки
func checkShape(shape physics.Shape, cellSize float64) error {
	if err := shape.Validate(); err != nil {
		return fmt.Errorf("%w: %v", errInvalidInput, err)
	}
	width, depth := shape.Size.X, shape.Size.Z
	if shape.Kind == physics.ShapeCircle {
		width, depth = 2*shape.Radius, 2*shape.Radius
	}
	limit := maxColliderCells * cellSize
	if width > limit || depth > limit {
		return fmt.Errorf("%w: shape %.0fx%.0f exceeds %.0f", errInvalidInput, width, depth, limit)
	}
	return nil
}

// checkSearchRadius ограничивает радиус поиска соседей
func checkSearchRadius(r, cellSize float64) error {
	limit := maxNearbyCells * cellSize
	if math.IsNaN(r) || r < 0 || r > limit {
		return fmt.Errorf("%w: radius %v must be within [0, %.0f]", errInvalidInput, r, limit)
	}
	return nil
}

// ColliderRequest добавление коллайдера в работающую комнату
type ColliderRequest struct {
	Name  string              `json:"name"`
	X     float64             `json:"x"`
	Z     float64             `json:"z"`
	Type  string              `json:"type"`
	Shape collision.ShapeSpec `json:"shape"`
}

// PositionRequest новая позиция коллайдера
type PositionRequest struct {
	X float64 `json:"x"`
	Z float64 `json:"z"`
}

// ColliderView коллайдер в ответах API
type ColliderView struct {
	ID    collision.ID           `json:"id"`
	X     float64                `json:"x"`
	Z     float64                `json:"z"`
	Type  collision.ColliderType `json:"type"`
	Shape collision.ShapeSpec    `json:"shape"`
	Top   *float64               `json:"top,omitempty"` // nil: без верхней грани
	Cells int                    `json:"cells"`
}

func newColliderView(c *collision.Collider, unbounded float64) ColliderView {
	view := ColliderView{
		ID:    c.ID,
		X:     c.X,
		Z:     c.Z,
		Type:  c.Type,
		Shape: collision.SpecFromShape(c.Shape),
		Cells: len(c.Cells),
	}
	if top := c.Top(unbounded); !math.IsInf(top, 0) && top != unbounded {
		view.Top = &top
	}
	return view
}

func parseColliderID(c *gin.Context) (collision.ID, bool) {
	id, err := strconv.ParseUint(c.Param("cid"), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "Неверный id коллайдера")
		return 0, false
	}
	return collision.ID(id), true
}

func (rs *RestServer) handleAddCollider(c *gin.Context) {
	var req ColliderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Неверный формат запроса")
		return
	}
	typ, ok := collision.ParseColliderType(req.Type)
	if !ok {
		badRequest(c, fmt.Sprintf("Неизвестный тип коллизии %q", req.Type))
		return
	}

	var view ColliderView
	shape := req.Shape.Shape()
	err := rs.rooms.WithRoom(c.Param("id"), func(e *collision.Engine) error {
		if err := checkShape(shape, e.Options().CellSize); err != nil {
			return err
		}
		id := e.AddCollider(req.X, req.Z, shape, typ, collision.PropData{Name: req.Name})
		col, _ := e.Collider(id)
		view = newColliderView(col, e.Options().UnboundedHeight)
		return nil
	})
	if err != nil {
		rs.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, GenericResponse{Success: true, Message: "Коллайдер добавлен", Data: view})
}

func (rs *RestServer) handleMoveCollider(c *gin.Context) {
	cid, ok := parseColliderID(c)
	if !ok {
		return
	}
	var req PositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Неверный формат запроса")
		return
	}

	found := false
	var view ColliderView
	err := rs.rooms.WithRoom(c.Param("id"), func(e *collision.Engine) error {
		if found = e.UpdateCollider(cid, req.X, req.Z); found {
			col, _ := e.Collider(cid)
			view = newColliderView(col, e.Options().UnboundedHeight)
		}
		return nil
	})
	if err != nil {
		rs.respondError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, GenericResponse{Success: false, Message: "Коллайдер не найден"})
		return
	}
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "Коллайдер перемещён", Data: view})
}

func (rs *RestServer) handleRemoveCollider(c *gin.Context) {
	cid, ok := parseColliderID(c)
	if !ok {
		return
	}

	removed := false
	err := rs.rooms.WithRoom(c.Param("id"), func(e *collision.Engine) error {
		removed = e.RemoveCollider(cid)
		return nil
	})
	if err != nil {
		rs.respondError(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, GenericResponse{Success: false, Message: "Коллайдер не найден"})
		return
	}
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "Коллайдер удалён"})
}

func (rs *RestServer) handleNearby(c *gin.Context) {
	x, errX := strconv.ParseFloat(c.Query("x"), 64)
	z, errZ := strconv.ParseFloat(c.Query("z"), 64)
	radius, errR := strconv.ParseFloat(c.DefaultQuery("r", "10"), 64)
	if errX != nil || errZ != nil || errR != nil {
		badRequest(c, "Параметры x, z, r должны быть числами")
		return
	}

	views := []ColliderView{}
	err := rs.rooms.WithRoom(c.Param("id"), func(e *collision.Engine) error {
		if err := checkSearchRadius(radius, e.Options().CellSize); err != nil {
			return err
		}
		unbounded := e.Options().UnboundedHeight
		for _, col := range e.GetNearbyColliders(x, z, radius) {
			views = append(views, newColliderView(col, unbounded))
		}
		return nil
	})
	if err != nil {
		rs.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "Коллайдеры рядом", Data: views})
}
