package servehttp

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"printdesk/account"
	"printdesk/bizerror"
	"printdesk/common"
	"printdesk/domain/notification"
	"printdesk/domain/workorder"
	"printdesk/infra/tracing"
	"printdesk/session"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const ShutdownTimeout = 3 * time.Second

// BuildEngine assembles every REST group, all of them but the login endpoints require a signed-in session.
func BuildEngine() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Logger(), tracing.TracingIngress(), bizerror.ErrorHandling())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, common.ServiceName)
	})

	auth := session.SimpleAuthFilter()
	account.RegisterSessionsHandler(engine)
	account.RegisterSessionHandler(engine, auth)
	account.RegisterUsersHandler(engine, auth)
	workorder.RegisterWorkOrdersRestAPI(engine, auth)
	notification.RegisterNotificationsRestAPI(engine, auth)
	return engine
}

// StartHTTPServer serves until SIGINT or SIGTERM is received, then shuts down gracefully.
func StartHTTPServer(engine *gin.Engine, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: engine,
	}

	failed := make(chan error, 1)
	go func() {
		logrus.Infof("http server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			failed <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	// kill (no param) default send syscall.SIGTERM
	// kill -2 send syscall.SIGINT
	// kill -9 send syscall.SIGKILL, can't be caught
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)
	select {
	case err := <-failed:
		return err
	case <-quit:
	}
	logrus.Infof("[QUIT] shutdown signal has been received, the service will exit in %s.", ShutdownTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	logrus.Info("[QUIT] http server is shutdown gracefully, new request will be rejected.")
	return nil
}
