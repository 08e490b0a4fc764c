package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"StockMate/pkg/alert"
)

// Scheduler 任务调度器
// 周期性触发警示巡检；/check_alerts 端点仍可随时手动触发，
// 两者共用的巡检互斥保证同一时间只有一轮在跑。
type Scheduler struct {
	cron    *cron.Cron
	monitor *alert.Monitor
	logger  zerolog.Logger
}

// NewScheduler 创建任务调度器
func NewScheduler(monitor *alert.Monitor, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		monitor: monitor,
		logger:  logger.With().Str("component", "scheduler").Logger(),
	}
}

// Start 按给定cron表达式启动周期巡检
func (s *Scheduler) Start(sweepSpec string) error {
	if _, err := s.cron.AddFunc(sweepSpec, func() {
		s.logger.Debug().Msg("定时触发警示巡检")
		s.monitor.RunSweep()
	}); err != nil {
		return fmt.Errorf("注册巡检任务失败: %w", err)
	}

	s.cron.Start()
	s.logger.Info().Str("spec", sweepSpec).Msg("调度器已启动")
	return nil
}

// Stop 停止调度器
func (s *Scheduler) Stop() {
	s.cron.Stop()
}
