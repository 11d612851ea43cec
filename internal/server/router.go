package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mgpai22/capstudio/internal/logging"
)

func SetupRouter(r *gin.Engine, hdl *Handler) {
	r.GET("/healthz", hdl.Health)

	api := r.Group("/api")
	{
		api.POST("/sessions", hdl.CreateSession)
		api.GET("/sessions/:id", hdl.GetSession)
		api.DELETE("/sessions/:id", hdl.DeleteSession)
		api.PUT("/sessions/:id/video", hdl.LoadVideo)
		api.PUT("/sessions/:id/duration", hdl.SetDuration)

		api.POST("/sessions/:id/captions", hdl.AddCaption)
		api.DELETE("/sessions/:id/captions", hdl.ClearCaptions)
		api.POST("/sessions/:id/captions/sample", hdl.LoadSample)
		api.PUT("/sessions/:id/captions/:captionId", hdl.UpdateCaption)
		api.DELETE("/sessions/:id/captions/:captionId", hdl.DeleteCaption)
		api.POST("/sessions/:id/captions/:captionId/nudge", hdl.NudgeCaption)

		api.GET("/sessions/:id/active", hdl.Active)
		api.GET("/sessions/:id/export/:format", hdl.Export)
	}
}

// NewEngine builds a gin engine with request logging and panic recovery.
func NewEngine(hdl *Handler) *gin.Engine {
	r := gin.New()
	r.Use(requestLogger(hdl.Logger), gin.Recovery())
	SetupRouter(r, hdl)
	return r
}

func requestLogger(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Debugw("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client", c.ClientIP(),
		)
	}
}

// Run serves the engine on addr until ctx is cancelled, then shuts down
// gracefully.
func Run(ctx context.Context, addr string, engine *gin.Engine, logger *logging.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          zap.NewStdLog(logger.Zap()),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infow("Server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Infow("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
