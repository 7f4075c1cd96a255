package logger

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"

	"wopanel/pkg/core/consts"

	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log 包装 logrus.Entry，提供统一的日志入口
type Log struct {
	*logrus.Entry
}

// FileConfig 日志文件输出配置（为空则只输出到控制台）
type FileConfig struct {
	Filename   string `yaml:"file"`
	MaxSize    int    `yaml:"max-size"`    // 单个文件最大大小（MB）
	MaxBackups int    `yaml:"max-backups"` // 保留历史文件数
	MaxAge     int    `yaml:"max-age"`     // 保留天数
	Compress   bool   `yaml:"compress"`
}

var (
	log *Log
	mu  sync.Mutex
)

// InitLogger 初始化全局日志器
func InitLogger(level string, file *FileConfig) *Log {
	mu.Lock()
	defer mu.Unlock()
	logger := logrus.New()

	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	logLevel := logrus.InfoLevel
	switch level {
	case "debug":
		logLevel = logrus.DebugLevel
	case "warn":
		logLevel = logrus.WarnLevel
	case "error":
		logLevel = logrus.ErrorLevel
	}
	logger.SetLevel(logLevel)

	if file != nil && file.Filename != "" {
		rotate := &lumberjack.Logger{
			Filename:   file.Filename,
			MaxSize:    file.MaxSize,
			MaxBackups: file.MaxBackups,
			MaxAge:     file.MaxAge,
			Compress:   file.Compress,
		}
		logger.SetOutput(io.MultiWriter(os.Stdout, rotate))
	}

	log = &Log{Entry: logrus.NewEntry(logger)}

	return log
}

// GetLogger 获取全局日志器，未初始化时返回默认 debug 级别日志器
func GetLogger() *Log {
	mu.Lock()
	defer mu.Unlock()
	if log != nil {
		return log
	}
	logger := logrus.New()

	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	logger.SetLevel(logrus.DebugLevel)

	return &Log{Entry: logrus.NewEntry(logger)}
}

func (l *Log) WithField(key string, value interface{}) *Log {
	return &Log{l.Entry.WithField(key, value)}
}

func (l *Log) GetLogger() *logrus.Entry {
	return l.Entry
}

// WithFields 将任意结构体/映射打平为日志字段
func (l *Log) WithFields(arg interface{}) *Log {
	var jsonMap map[string]interface{}
	bytes, err := json.Marshal(arg)
	if err != nil {
		return l.WithField("arg", arg)
	}
	err = json.Unmarshal(bytes, &jsonMap)
	if err != nil {
		return l.WithField("arg", arg)
	}

	return &Log{l.Entry.WithFields(jsonMap)}
}

func (l *Log) WithEntryName(entryName string) *Log {
	return l.WithField("EntryName", entryName)
}

func (l *Log) WithErr(err error) *Log {
	if err == nil {
		return l
	}
	return l.WithField("Err", err.Error())
}

// WithTrace 从 context 提取追踪ID，不存在时生成新的
func (l *Log) WithTrace(ctx context.Context) *Log {
	traceID, ok := ctx.Value(consts.TraceKey).(string)
	if !ok || traceID == "" {
		traceID = uuid.NewV4().String()
	}
	return l.WithField("TraceId", traceID)
}
