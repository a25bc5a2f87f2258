package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chaos-io/transpalentor/assets"
	"github.com/chaos-io/transpalentor/config"
	"github.com/chaos-io/transpalentor/storage"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// Server 上传、透过处理、消しゴム和图片访问的 HTTP 服务
type Server struct {
	cfg    *config.Config
	store  *storage.Store
	log    *slog.Logger
	engine *gin.Engine
	now    func() time.Time
}

func New(cfg *config.Config, store *storage.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:   cfg,
		store: store,
		log:   logger,
		now:   time.Now,
	}
	s.engine = s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = s.cfg.MaxUploadBytes()
	r.Use(requestID(), accessLog(s.log), recovery(s.log), cors(s.cfg.CORSOrigins))

	r.GET("/", s.index)
	r.GET("/health", s.health)
	r.StaticFileFS("/assets/app.css", "app.css", http.FS(assets.FS))
	if s.cfg.StaticDir != "" {
		r.Static("/static", s.cfg.StaticDir)
	}

	g := r.Group("/api")
	g.POST("/upload", s.upload)
	g.POST("/process", s.process)
	g.POST("/erase", s.erase)
	g.GET("/images/:sid/:name", s.image)
	return r
}

// Run 监听 cfg.Addr，ctx 取消后优雅关闭
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		s.log.Info("server listening", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info("server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
