package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/annel0/zonegrid/internal/logging"
	"github.com/annel0/zonegrid/internal/middleware"
	"github.com/annel0/zonegrid/internal/room"
	"github.com/annel0/zonegrid/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// RestServer отладочный и операционный HTTP API комнат
type RestServer struct {
	router     *gin.Engine
	rooms      *room.Manager
	addr       string
	metrics    *ServerMetrics
	logger     *logging.Logger
	httpServer *http.Server
}

// Config содержит конфигурацию для REST сервера
type Config struct {
	Addr        string               // адрес для запуска сервера, ":8090"
	ServiceName string               // имя сервиса для otel и префикс метрик
	Rooms       *room.Manager        // менеджер комнат
	Registry    *prometheus.Registry // nil: отдельный реестр сервера
	Logger      *logging.Logger      // nil: логгер компонента api
}

// GenericResponse представляет общий ответ API
type GenericResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// NewRestServer создает новый REST API сервер
func NewRestServer(config Config) *RestServer {
	if config.Addr == "" {
		config.Addr = ":8090"
	}
	if config.ServiceName == "" {
		config.ServiceName = "zonegrid"
	}
	if config.Registry == nil {
		config.Registry = prometheus.NewRegistry()
	}
	if config.Logger == nil {
		config.Logger = logging.GetAPILogger()
	}

	// Устанавливаем режим релиза для gin
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()        // без стандартного logger/recovery
	router.Use(gin.Recovery()) // добавим только recovery

	// === Observability middleware ===
	router.Use(otelgin.Middleware(config.ServiceName))

	loggerMw := middleware.NewRequestLogger(config.Logger)
	router.Use(loggerMw.Handler())

	promMw := middleware.NewPrometheusMiddleware(config.ServiceName+"_api", config.Registry)
	router.Use(promMw.Handler())
	middleware.RegisterMetricsEndpoint(router, config.Registry)

	server := &RestServer{
		router:  router,
		rooms:   config.Rooms,
		addr:    config.Addr,
		metrics: NewServerMetrics(),
		logger:  config.Logger,
	}

	server.setupRoutes()
	return server
}

// setupRoutes настраивает маршруты REST API
func (rs *RestServer) setupRoutes() {
	// Health check
	rs.router.GET("/health", rs.handleHealth)

	api := rs.router.Group("/api")
	api.GET("/server", rs.handleServerInfo)

	layouts := api.Group("/layouts")
	{
		layouts.GET("", rs.handleListLayouts)
		layouts.POST("", rs.handleSaveLayout)
	}

	rooms := api.Group("/rooms")
	{
		rooms.GET("", rs.handleListRooms)
		rooms.POST("", rs.handleSpawnRoom)
		rooms.GET("/:id", rs.handleGetRoom)
		rooms.DELETE("/:id", rs.handleTeardownRoom)
		rooms.GET("/:id/stats", rs.handleRoomStats)
		rooms.GET("/:id/debug", rs.handleRoomDebug)
		rooms.POST("/:id/move", rs.handleMove)
		rooms.GET("/:id/nearby", rs.handleNearby)
		rooms.POST("/:id/colliders", rs.handleAddCollider)
		rooms.PATCH("/:id/colliders/:cid", rs.handleMoveCollider)
		rooms.DELETE("/:id/colliders/:cid", rs.handleRemoveCollider)
	}
}

// Handler возвращает http.Handler (для тестов и встраивания)
func (rs *RestServer) Handler() http.Handler {
	return rs.router
}

// Start запускает REST сервер и блокируется до Stop
func (rs *RestServer) Start() error {
	rs.httpServer = &http.Server{
		Addr:              rs.addr,
		Handler:           rs.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	rs.logger.Info("🌐 REST API слушает %s", rs.addr)
	if err := rs.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop останавливает REST сервер, дожидаясь активных запросов
func (rs *RestServer) Stop(ctx context.Context) error {
	if rs.httpServer == nil {
		return nil
	}
	return rs.httpServer.Shutdown(ctx)
}

// handleHealth проверка состояния сервера
func (rs *RestServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Unix(),
		"rooms":  rs.rooms.Count(),
	})
}

// handleServerInfo возвращает метрики процесса
func (rs *RestServer) handleServerInfo(c *gin.Context) {
	info := rs.metrics.Snapshot()
	info["rooms"] = rs.rooms.Count()

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Информация о сервере",
		Data:    info,
	})
}

// respondError переводит ошибку слоя комнат в HTTP-статус
func (rs *RestServer) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, room.ErrRoomNotFound), errors.Is(err, storage.ErrLayoutNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, GenericResponse{Success: false, Message: err.Error()})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, GenericResponse{Success: false, Message: message})
}
