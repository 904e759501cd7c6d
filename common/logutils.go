package common

import (
	"os"

	"github.com/sirupsen/logrus"
)

var (
	ServiceName     = "printdesk"
	ServiceInstance = hostname()
)

func init() {
	logger := logrus.StandardLogger()
	logger.Out = os.Stdout
	logger.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	if os.Getenv("GIN_MODE") == "release" {
		logger.Formatter = &logrus.JSONFormatter{}
	}
	logger.AddHook(&DefaultFieldsHook{})
}

type DefaultFieldsHook struct {
}

func (hook *DefaultFieldsHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (hook *DefaultFieldsHook) Fire(e *logrus.Entry) error {
	e.Data["service"] = ServiceName
	e.Data["instance"] = ServiceInstance
	return nil
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return name
}
