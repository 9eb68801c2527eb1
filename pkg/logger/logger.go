package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger 封装了 zerolog.Logger 并包含同步机制
type Logger struct {
	logger zerolog.Logger
	mutex  sync.RWMutex
}

// consoleWriter 用于控制台输出
var consoleWriter = zerolog.ConsoleWriter{
	Out:        os.Stdout,
	TimeFormat: time.RFC3339,
}

// NewLogger 初始化日志系统
func NewLogger(debug bool) *Logger {
	// 设置全局日志级别
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	l := &Logger{logger: build(consoleWriter)}

	// 设置全局 logger
	log.Logger = l.logger
	return l
}

// Nop returns a logger that discards everything. Used by tests.
func Nop() *Logger {
	return &Logger{logger: zerolog.Nop()}
}

// NewWithWriter 使用指定输出创建 logger，不修改全局 logger
func NewWithWriter(w io.Writer) *Logger {
	return &Logger{logger: build(w)}
}

func build(writers ...io.Writer) zerolog.Logger {
	return zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Caller().
		Logger()
}

// GetLogger 返回带有上下文的日志记录器
func (l *Logger) GetLogger(component string) zerolog.Logger {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	return l.logger.With().
		Str("component", component).
		Logger()
}

// SetLogOutput 设置额外的日志输出（如文件）
func (l *Logger) SetLogOutput(logFilePath string) {
	// 使用 lumberjack 进行日志轮转
	fileWriter := &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    100, // megabytes
		MaxBackups: 3,
		MaxAge:     28,   // days
		Compress:   true, // 压缩旧文件
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()

	// 更新 logger 的输出，包含控制台和文件
	l.logger = build(consoleWriter, fileWriter)

	// 更新全局 logger
	log.Logger = l.logger
}

// New 按配置创建 logger，logFile 为空时只输出到控制台
func New(debug bool, logFile string) *Logger {
	l := NewLogger(debug)
	if logFile != "" {
		l.SetLogOutput(logFile)
	}
	return l
}
