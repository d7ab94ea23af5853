package api

import (
	"net/http"

	"github.com/annel0/zonegrid/internal/collision"
	"github.com/annel0/zonegrid/internal/room"
	"github.com/annel0/zonegrid/internal/storage"
	"github.com/gin-gonic/gin"
)

// SpawnRequest запрос на создание комнаты
type SpawnRequest struct {
	Layout string `json:"layout" binding:"required"`
}

// MoveRequest тик пробного агента
type MoveRequest struct {
	FromX  float64 `json:"fromX"`
	FromZ  float64 `json:"fromZ"`
	ToX    float64 `json:"toX"`
	ToZ    float64 `json:"toZ"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius" binding:"gte=0"`
}

func (rs *RestServer) handleListLayouts(c *gin.Context) {
	names, err := rs.rooms.Layouts(c.Request.Context())
	if err != nil {
		rs.respondError(c, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "Раскладки", Data: names})
}

func (rs *RestServer) handleSaveLayout(c *gin.Context) {
	var layout storage.Layout
	if err := c.ShouldBindJSON(&layout); err != nil {
		badRequest(c, "Неверный формат раскладки: "+err.Error())
		return
	}
	if err := layout.Validate(); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := rs.rooms.SaveLayout(c.Request.Context(), &layout); err != nil {
		rs.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, GenericResponse{Success: true, Message: "Раскладка сохранена", Data: layout.Name})
}

func (rs *RestServer) handleListRooms(c *gin.Context) {
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "Комнаты", Data: rs.rooms.List()})
}

func (rs *RestServer) handleSpawnRoom(c *gin.Context) {
	var req SpawnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Неверный формат запроса")
		return
	}

	info, err := rs.rooms.Spawn(c.Request.Context(), req.Layout)
	if err != nil {
		rs.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, GenericResponse{Success: true, Message: "Комната создана", Data: info})
}

func (rs *RestServer) handleGetRoom(c *gin.Context) {
	info, err := rs.rooms.Get(c.Param("id"))
	if err != nil {
		rs.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "Комната", Data: info})
}

func (rs *RestServer) handleTeardownRoom(c *gin.Context) {
	if err := rs.rooms.Teardown(c.Request.Context(), c.Param("id")); err != nil {
		rs.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "Комната закрыта"})
}

func (rs *RestServer) handleRoomStats(c *gin.Context) {
	var stats collision.Stats
	err := rs.rooms.WithRoom(c.Param("id"), func(e *collision.Engine) error {
		stats = e.GetStats()
		return nil
	})
	if err != nil {
		rs.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "Статистика комнаты", Data: stats})
}

func (rs *RestServer) handleRoomDebug(c *gin.Context) {
	var mesh collision.DebugMesh
	err := rs.rooms.WithRoom(c.Param("id"), func(e *collision.Engine) error {
		mesh = e.DebugMesh()
		return nil
	})
	if err != nil {
		rs.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mesh)
}

func (rs *RestServer) handleMove(c *gin.Context) {
	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Неверный формат запроса: "+err.Error())
		return
	}

	res, err := rs.rooms.Probe(c.Param("id"), room.Probe(req))
	if err != nil {
		rs.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "Ход рассчитан", Data: res})
}
