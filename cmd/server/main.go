package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/zonegrid/internal/api"
	"github.com/annel0/zonegrid/internal/config"
	"github.com/annel0/zonegrid/internal/eventbus"
	"github.com/annel0/zonegrid/internal/levelgen"
	"github.com/annel0/zonegrid/internal/logging"
	"github.com/annel0/zonegrid/internal/metrics"
	"github.com/annel0/zonegrid/internal/observability"
	"github.com/annel0/zonegrid/internal/room"
	"github.com/annel0/zonegrid/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to YAML config (default: $ZONEGRID_CONFIG)")
		layoutsDir = flag.String("layouts", "", "Directory with *.yaml layouts to import on start")
		demo       = flag.Bool("demo", false, "Generate and spawn a demo room")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	if err := initLogging(cfg.Logging); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()
	defer logging.GetLoggerManager().CloseAll()

	logging.Info("🧱 Запуск zonegrid: cell=%.1f storage=%s", cfg.Engine.CellSize, cfg.Storage.Backend)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// === ТЕЛЕМЕТРИЯ ===
	shutdownTelemetry, err := observability.InitTelemetry(ctx, cfg.Telemetry)
	if err != nil {
		logging.Warn("OpenTelemetry недоступен: %v", err)
		shutdownTelemetry = func(context.Context) error { return nil }
	}

	// === ХРАНИЛИЩЕ РАСКЛАДОК ===
	repo, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("❌ Ошибка открытия хранилища: %v", err)
	}
	defer repo.Close()

	if *layoutsDir != "" {
		names, err := storage.ImportDir(ctx, repo, *layoutsDir)
		if err != nil {
			log.Fatalf("❌ Ошибка импорта раскладок: %v", err)
		}
		logging.Info("📂 Импортировано раскладок: %d %v", len(names), names)
	}

	// === ШИНА СОБЫТИЙ ===
	bus, err := openBus(cfg.EventBus)
	if err != nil {
		log.Fatalf("❌ Ошибка подключения шины событий: %v", err)
	}
	defer bus.Close()

	if _, err := eventbus.StartLoggingListener(ctx, bus); err != nil {
		logging.Warn("LoggingListener: %v", err)
	}

	// === КОМНАТЫ ===
	rooms := room.NewManager(repo, bus, cfg.EngineOptions())
	defer rooms.Close(context.Background())

	if *demo {
		if err := spawnDemo(ctx, rooms); err != nil {
			logging.Error("Демо-комната: %v", err)
		}
	}

	// === МЕТРИКИ ===
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	busExporter := eventbus.NewMetricsExporter(bus, registry, time.Second)
	busExporter.Start()
	defer busExporter.Stop()

	roomExporter := metrics.NewRoomExporter(rooms, registry, cfg.Server.GetStatsInterval())
	if _, err := roomExporter.CountTriggerEvents(ctx, bus); err != nil {
		logging.Warn("Счётчик событий триггеров: %v", err)
	}
	roomExporter.Start()
	defer roomExporter.Stop()

	// === REST API ===
	restAddr := fmt.Sprintf(":%d", cfg.Server.GetHTTPPort())
	server := api.NewRestServer(api.Config{
		Addr:        restAddr,
		ServiceName: cfg.Telemetry.ServiceName,
		Rooms:       rooms,
		Registry:    registry,
	})

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	logging.Info("✅ zonegrid запущен")
	logging.Info("   🌐 REST API: http://localhost%s", restAddr)
	logging.Info("   📈 Метрики: http://localhost%s/metrics", restAddr)
	logging.Info("   ❤️  Health check: http://localhost%s/health", restAddr)

	select {
	case <-ctx.Done():
		logging.Info("📡 Получен сигнал завершения, останавливаемся...")
	case err := <-errCh:
		if err != nil {
			logging.Error("❌ REST API остановился: %v", err)
		}
	}

	// === GRACEFUL SHUTDOWN ===
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Stop(shutdownCtx); err != nil {
		logging.Error("❌ Ошибка остановки REST API: %v", err)
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		logging.Warn("OpenTelemetry shutdown: %v", err)
	}

	logging.Info("👋 Сервер успешно остановлен")
}

func initLogging(cfg config.LoggingConfig) error {
	level := logging.ParseLevel(cfg.Level)
	logger := logging.NewWriterLogger("server", os.Stdout, level)
	if cfg.File {
		l, err := logging.NewLogger("server")
		if err != nil {
			return err
		}
		l.SetLevels(level, logging.TRACE)
		logger = l
	}
	logging.SetDefaultLogger(logger)
	return nil
}

func openBus(cfg config.EventBusConfig) (eventbus.EventBus, error) {
	if cfg.URL == "" {
		logging.Info("📨 EventBus: in-memory (buffer=%d)", cfg.Buffer)
		return eventbus.NewMemoryBus(cfg.Buffer), nil
	}
	return eventbus.NewJetStreamBus(cfg.URL, cfg.Stream, time.Duration(cfg.Retention)*time.Hour)
}

func spawnDemo(ctx context.Context, rooms *room.Manager) error {
	layout := levelgen.Generate(levelgen.DefaultParams(time.Now().UnixNano()))
	layout.Name = "demo"
	if err := rooms.SaveLayout(ctx, layout); err != nil {
		return err
	}
	info, err := rooms.Spawn(ctx, layout.Name)
	if err != nil {
		return err
	}
	logging.Info("🎲 Демо-комната %s: %d коллайдеров, %d зон", info.ID, info.Stats.ColliderCount, info.Stats.TriggerCount)
	return nil
}
