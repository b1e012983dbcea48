package logging

import (
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"
)

var instance *logrus.Logger
var once sync.Once

// GetLogger returns the shared logger. The first call creates it: text
// formatter with short caller info, writing to logs/all.log and stdout.
func GetLogger() *logrus.Logger {
	once.Do(func() {
		l := logrus.New()
		l.SetReportCaller(true)
		l.Formatter = &logrus.TextFormatter{
			CallerPrettyfier: func(f *runtime.Frame) (string, string) {
				filename := path.Base(f.File)
				return fmt.Sprintf("%s()", f.Function), fmt.Sprintf("%s:%d", filename, f.Line)
			},
			DisableColors: false,
			FullTimestamp: true,
		}

		err := os.MkdirAll("logs", 0770)
		if err != nil {
			fmt.Println(err)
		}

		file, err := os.OpenFile("logs/all.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640)
		if err != nil {
			l.SetOutput(os.Stdout)
		} else {
			l.SetOutput(io.MultiWriter(file, os.Stdout))
		}

		l.SetLevel(logrus.InfoLevel)
		instance = l
	})

	return instance
}

// SetDebug switches the shared logger to debug level.
func SetDebug() {
	GetLogger().SetLevel(logrus.DebugLevel)
}
