package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	log  *logrus.Logger
	once sync.Once
)

// Init инициализирует глобальный логгер
// env: "development" - читаемый текст, иначе JSON для сборщика логов
func Init(env string) {
	l := logrus.New()
	l.Out = os.Stdout

	if env == "development" {
		l.SetLevel(logrus.DebugLevel)
		l.Formatter = &logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		}
	} else {
		l.SetLevel(logrus.InfoLevel)
		l.Formatter = &logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "severity",
				logrus.FieldKeyMsg:   "message",
			},
			TimestampFormat: time.RFC3339Nano,
		}
	}

	log = l
}

// SetOutput перенаправляет вывод (используется в тестах)
func SetOutput(w io.Writer) {
	GetLogger().Out = w
}

// GetLogger возвращает глобальный логгер
func GetLogger() *logrus.Logger {
	if log == nil {
		// Fallback если Init не вызван
		once.Do(func() {
			if log == nil {
				Init("development")
			}
		})
	}
	return log
}

// fields превращает пары ключ/значение в logrus.Fields.
// Непарный хвост попадает под ключ "!BADKEY", как в slog.
func fields(args []any) logrus.Fields {
	f := make(logrus.Fields, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			f["!BADKEY"] = args[i]
			break
		}
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		val := args[i+1]
		if err, isErr := val.(error); isErr && err != nil {
			val = err.Error()
		}
		f[key] = val
	}
	return f
}

// ============================================
// Convenience функции
// ============================================

func Debug(msg string, args ...any) {
	GetLogger().WithFields(fields(args)).Debug(msg)
}

func Info(msg string, args ...any) {
	GetLogger().WithFields(fields(args)).Info(msg)
}

func Warn(msg string, args ...any) {
	GetLogger().WithFields(fields(args)).Warn(msg)
}

func Error(msg string, args ...any) {
	GetLogger().WithFields(fields(args)).Error(msg)
}

// Fatal логирует и завершает процесс с кодом 1
func Fatal(msg string, args ...any) {
	GetLogger().WithFields(fields(args)).Fatal(msg)
}

// With возвращает entry с дополнительными полями
func With(args ...any) *logrus.Entry {
	return GetLogger().WithFields(fields(args))
}

// WithError возвращает entry с полем error
func WithError(err error) *logrus.Entry {
	return GetLogger().WithError(err)
}
