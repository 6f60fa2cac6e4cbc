package logger

import (
	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

// Init настраивает глобальный логгер. В production пишем JSON, иначе текст.
func Init(level string, production bool) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	if production {
		Log.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// WithCandidate - поля для записей, относящихся к кандидату.
func WithCandidate(candidateID any) *logrus.Entry {
	return Log.WithField("candidate_id", candidateID)
}
