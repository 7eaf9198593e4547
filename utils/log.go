package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	configs "go_stub_server/internal/infra/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// CustomFormatter 自定义日志格式
type CustomFormatter struct {
	logrus.JSONFormatter
}

// Format 实现自定义格式化
func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	// 获取调用信息
	if _, ok := entry.Data["file"]; !ok && entry.HasCaller() {
		entry.Data["file"] = filepath.Base(entry.Caller.File)
		entry.Data["line"] = entry.Caller.Line
		entry.Data["func"] = filepath.Base(entry.Caller.Function)
	}

	// 添加进程信息
	entry.Data["pid"] = os.Getpid()

	// 添加协程ID
	entry.Data["goroutine_id"] = getGoroutineID()

	return f.JSONFormatter.Format(entry)
}

// Log is the global logger instance
var (
	Log  *logrus.Logger
	once sync.Once
	mu   sync.Mutex
)

// NewLogger builds a JSON logger from cfg. Output goes to stdout, and also
// to a rotated file when cfg.FilePath is set.
func NewLogger(cfg configs.LogConfig) (*logrus.Logger, error) {
	logger := logrus.New()

	// 使用自定义格式化器
	logger.SetFormatter(&CustomFormatter{
		JSONFormatter: logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "@timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		},
	})

	var out io.Writer = os.Stdout
	if cfg.FilePath != "" {
		// 创建日志目录
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		})
	}
	logger.SetOutput(out)

	// 设置日志级别
	level := logrus.InfoLevel
	if cfg.Level != "" {
		parsed, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
		level = parsed
	}
	logger.SetLevel(level)

	// 添加堆栈跟踪
	logger.SetReportCaller(true)
	return logger, nil
}

// InitLogger replaces the process logger with one built from cfg.
func InitLogger(cfg configs.LogConfig) (*logrus.Logger, error) {
	logger, err := NewLogger(cfg)
	if err != nil {
		return nil, err
	}
	once.Do(func() {})
	mu.Lock()
	Log = logger
	mu.Unlock()
	return logger, nil
}

// GetLogger returns the singleton logger instance
func GetLogger() *logrus.Logger {
	once.Do(func() {
		logger, err := NewLogger(configs.DefaultStubConfig().Log)
		if err != nil {
			panic(fmt.Sprintf("failed to init logger: %v", err))
		}
		mu.Lock()
		Log = logger
		mu.Unlock()
	})
	mu.Lock()
	defer mu.Unlock()
	return Log
}

// getGoroutineID 获取当前协程ID
func getGoroutineID() uint64 {
	b := make([]byte, 64)
	b = b[:runtime.Stack(b, false)]
	// 解析协程ID
	var id uint64
	fmt.Sscanf(string(b), "goroutine %d", &id)
	return id
}
