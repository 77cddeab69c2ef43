package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log — общий логгер процесса. Настраивается один раз в Init.
var Log = logrus.New()

type Entry = logrus.Entry

// Fields — алиас для структурированных полей лога.
type Fields = logrus.Fields

// Init настраивает JSON-формат и уровень логирования.
// Уровень берётся из LOG_LEVEL (debug, info, warn, error), по умолчанию info.
func Init() {
	Log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})

	Log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)
}
