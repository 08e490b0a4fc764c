package api

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Server API服务器
type Server struct {
	router *gin.Engine
	srv    *http.Server
	logger zerolog.Logger
}

// NewServer 创建新的API服务器
func NewServer(port string, readTimeout, writeTimeout time.Duration, logger zerolog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// 设置中间件
	router.Use(gin.Recovery())

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	return &Server{
		router: router,
		srv:    srv,
		logger: logger.With().Str("component", "api").Logger(),
	}
}

// SetupRoutes 设置路由
func (s *Server) SetupRoutes(handlers *Handlers, staticDir string) {
	// 健康检查
	s.router.GET("/health", handlers.HealthCheck)
	s.router.GET("/", handlers.Home)

	// LINE Webhook回调
	s.router.POST("/callback", handlers.Callback)

	// 警示巡检，由外部排程或手动触发
	s.router.GET("/check_alerts", handlers.CheckAlerts)

	// 趋势图静态文件
	s.router.Static("/static", staticDir)
}

// Start 启动服务器并阻塞至收到终止信号
func (s *Server) Start() {
	// 在goroutine中启动服务器
	go func() {
		s.logger.Info().Str("addr", s.srv.Addr).Msg("API服务器启动")
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatal().Err(err).Msg("启动服务器失败")
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	s.logger.Info().Msg("正在关闭服务器...")

	// 设置超时上下文
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 优雅关闭
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Fatal().Err(err).Msg("服务器关闭失败")
	}

	s.logger.Info().Msg("服务器已关闭")
}
