package tracing

import (
	"io"
	"os"

	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
	"github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
)

type nopCloser struct{}

func (nopCloser) Close() error {
	return nil
}

// Enabled reports whether a jaeger agent or collector is configured through JAEGER_* variables.
func Enabled() bool {
	return os.Getenv("JAEGER_AGENT_HOST") != "" || os.Getenv("JAEGER_ENDPOINT") != ""
}

// InitGlobalTracer installs a jaeger tracer as the global tracer, or keeps the noop tracer when jaeger is not configured.
// The returned closer flushes buffered spans.
func InitGlobalTracer(serviceName string) io.Closer {
	if !Enabled() {
		logrus.Info("jaeger is not configured, tracing disabled")
		return nopCloser{}
	}
	cfg, err := jaegercfg.FromEnv()
	if err != nil {
		logrus.Warnf("invalid jaeger config, tracing disabled: %v", err)
		return nopCloser{}
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = serviceName
	}
	tracer, closer, err := cfg.NewTracer(jaegercfg.Logger(jaeger.StdLogger))
	if err != nil {
		logrus.Warnf("failed to create jaeger tracer, tracing disabled: %v", err)
		return nopCloser{}
	}
	opentracing.SetGlobalTracer(tracer)
	return closer
}
