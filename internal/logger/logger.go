package logger

import (
	"io"
	"os"
	"time"

	"github.com/natefinch/lumberjack"
	logrus "github.com/sirupsen/logrus"
)

// Setup sends logrus output to a rotating file (and stdout when alsoStdout
// is set) at the given level. Unknown levels fall back to debug.
func Setup(file, level string, alsoStdout bool) *lumberjack.Logger {
	rotator := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    10, // megabytes
		MaxBackups: 7,
		MaxAge:     7, // days
		Compress:   true,
	}

	var out io.Writer = rotator
	if alsoStdout {
		out = io.MultiWriter(os.Stdout, rotator)
	}
	logrus.SetOutput(out)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.DebugLevel
	}
	logrus.SetLevel(lvl)
	return rotator
}
