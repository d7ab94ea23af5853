package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// LogLevel определяет уровни логирования
type LogLevel int

const (
	TRACE LogLevel = iota
	DEBUG
	INFO
	WARN
	ERROR
)

// String возвращает строковое представление уровня логирования
func (l LogLevel) String() string {
	switch l {
	case TRACE:
		return "TRACE"
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel разбирает уровень из конфигурации. Неизвестное значение → INFO.
func ParseLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return TRACE
	case "DEBUG":
		return DEBUG
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

// Logger пишет сообщения в консоль и (опционально) в файл компонента
type Logger struct {
	component       string
	consoleLogger   *log.Logger
	fileLogger      *log.Logger
	file            *os.File
	minConsoleLevel LogLevel
	minFileLevel    LogLevel
	mu              sync.Mutex
}

// Глобальный логгер по умолчанию. До InitDefaultLogger все сообщения отбрасываются.
var (
	defaultLogger *Logger
	defaultMu     sync.RWMutex
)

// LogDir каталог для файлов логов
var LogDir = "logs"

// NewLogger создаёт логгер компонента с файлом logs/<component>_<timestamp>.log
func NewLogger(component string) (*Logger, error) {
	if err := os.MkdirAll(LogDir, 0755); err != nil {
		return nil, fmt.Errorf("ошибка создания директории %s: %w", LogDir, err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filename := filepath.Join(LogDir, fmt.Sprintf("%s_%s.log", component, timestamp))

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания файла логов: %w", err)
	}

	return &Logger{
		component:       component,
		consoleLogger:   log.New(os.Stdout, "", log.LstdFlags),
		fileLogger:      log.New(file, "", log.LstdFlags),
		file:            file,
		minConsoleLevel: INFO,
		minFileLevel:    TRACE,
	}, nil
}

// NewWriterLogger создаёт логгер без файла, пишущий в w (консоль, буфер в тестах)
func NewWriterLogger(component string, w io.Writer, level LogLevel) *Logger {
	return &Logger{
		component:       component,
		consoleLogger:   log.New(w, "", log.LstdFlags),
		minConsoleLevel: level,
		minFileLevel:    ERROR,
	}
}

// SetLevels меняет пороги консоли и файла
func (l *Logger) SetLevels(consoleLevel, fileLevel LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.minConsoleLevel = consoleLevel
	l.minFileLevel = fileLevel
}

// Close закрывает файл логов
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	l.fileLogger = nil
	return err
}

func (l *Logger) Trace(format string, args ...interface{}) { l.logMessage(TRACE, format, args...) }
func (l *Logger) Debug(format string, args ...interface{}) { l.logMessage(DEBUG, format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.logMessage(INFO, format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.logMessage(WARN, format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.logMessage(ERROR, format, args...) }

// logMessage внутренняя функция для логирования
func (l *Logger) logMessage(level LogLevel, format string, args ...interface{}) {
	if l == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.minConsoleLevel && (l.fileLogger == nil || level < l.minFileLevel) {
		return
	}

	message := fmt.Sprintf("[%s] [%s] %s", level.String(), l.component, fmt.Sprintf(format, args...))

	if l.fileLogger != nil && level >= l.minFileLevel {
		l.fileLogger.Println(message)
	}
	if l.consoleLogger != nil && level >= l.minConsoleLevel {
		l.consoleLogger.Println(message)
	}
}

// InitDefaultLogger инициализирует глобальный логгер с файлом компонента
func InitDefaultLogger(component string) error {
	logger, err := NewLogger(component)
	if err != nil {
		return err
	}
	SetDefaultLogger(logger)
	return nil
}

// SetDefaultLogger подменяет глобальный логгер (nil отключает логирование)
func SetDefaultLogger(l *Logger) {
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}

// CloseDefaultLogger закрывает систему логирования
func CloseDefaultLogger() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger != nil {
		defaultLogger.Close()
	}
}

func current() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// Trace логирует сообщение уровня TRACE
func Trace(format string, args ...interface{}) { current().logMessage(TRACE, format, args...) }

// Debug логирует сообщение уровня DEBUG
func Debug(format string, args ...interface{}) { current().logMessage(DEBUG, format, args...) }

// Info логирует сообщение уровня INFO
func Info(format string, args ...interface{}) { current().logMessage(INFO, format, args...) }

// Warn логирует сообщение уровня WARN
func Warn(format string, args ...interface{}) { current().logMessage(WARN, format, args...) }

// Error логирует сообщение уровня ERROR
func Error(format string, args ...interface{}) { current().logMessage(ERROR, format, args...) }

// LogColliderMovement логирует перемещение коллайдера
func LogColliderMovement(id uint64, fromX, fromZ, toX, toZ float64, cells int) {
	Trace("Collider %d moved: (%.2f,%.2f) -> (%.2f,%.2f) cells:%d",
		id, fromX, fromZ, toX, toZ, cells)
}
