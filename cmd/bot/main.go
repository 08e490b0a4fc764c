package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"StockMate/pkg/alert"
	"StockMate/pkg/api"
	"StockMate/pkg/bot"
	"StockMate/pkg/chart"
	"StockMate/pkg/config"
	"StockMate/pkg/line"
	"StockMate/pkg/logging"
	"StockMate/pkg/market"
	"StockMate/pkg/scheduler"
)

func main() {
	// 本地开发时从.env读取凭证，文件不存在时静默忽略
	_ = godotenv.Load()

	// 加载配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.FilePath)
	logger.Info().Str("app", cfg.App.Name).Str("env", cfg.App.Env).Msg("启动LINE股市助手...")

	if cfg.Server.PublicBaseURL == "" {
		// 本机可先跑，云端部署必须设定BASE_URL才能组出图片连结
		logger.Warn().Msg("未设定 BASE_URL，趋势图将仅以文字回覆")
	}

	// 行情检索层
	yahooClient := market.NewYahooClient(cfg.DataSources.Yahoo.BaseURL, cfg.DataSources.Yahoo.Timeout)
	nameCache := market.NewNameCache()
	marketSvc := market.NewService(yahooClient, nameCache, logger)

	// 趋势图渲染器
	renderer, err := chart.NewRenderer(marketSvc, cfg.Server.StaticDir, cfg.Chart.FontPath, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("初始化趋势图渲染器失败")
	}

	// LINE客户端
	lineClient := line.NewClient(cfg.Line.Endpoint, cfg.Line.ChannelAccessToken, cfg.Line.Timeout)

	// 警示存储与巡检
	store := alert.NewStore()
	monitor := alert.NewMonitor(store, marketSvc, lineClient, logger)

	// 事件处理
	composer := bot.NewComposer(marketSvc, renderer, cfg.Server.PublicBaseURL, logger)
	handler := bot.NewHandler(composer, store, lineClient, logger)

	// 周期巡检
	sched := scheduler.NewScheduler(monitor, logger)
	if err := sched.Start(cfg.Monitor.SweepCron); err != nil {
		logger.Fatal().Err(err).Msg("启动调度器失败")
	}
	defer sched.Stop()

	// 创建并启动服务器
	handlers := api.NewHandlers(handler, monitor, cfg.Line.ChannelSecret, logger)
	server := api.NewServer(cfg.Server.Port, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, logger)
	server.SetupRoutes(handlers, cfg.Server.StaticDir)
	server.Start()
}
