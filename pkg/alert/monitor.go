package alert

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"StockMate/pkg/market"
	"StockMate/pkg/model"
)

// Notifier 警示通知发送接口
type Notifier interface {
	PushText(userID, text string) error
}

// Monitor 警示巡检器
// 一次 RunSweep 对所有用户的待触发条件做一轮评估，
// 触发即通知并移除（一次性警示），取价失败的条件保留到下一轮。
type Monitor struct {
	store    *Store
	market   *market.Service
	notifier Notifier
	logger   zerolog.Logger

	mu sync.Mutex // 同一时间只允许一次巡检
}

// NewMonitor 创建警示巡检器
func NewMonitor(store *Store, marketSvc *market.Service, notifier Notifier, logger zerolog.Logger) *Monitor {
	return &Monitor{
		store:    store,
		market:   marketSvc,
		notifier: notifier,
		logger:   logger.With().Str("component", "alert_monitor").Logger(),
	}
}

// RunSweep 执行一轮警示巡检
// 用户列表与各用户条件均取快照遍历，巡检中的并发设定不会干扰迭代，
// 单轮内每条条件只评估一次。
func (m *Monitor) RunSweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	users := m.store.Users()
	if len(users) == 0 {
		m.logger.Debug().Msg("无警示设定，跳过巡检")
		return
	}

	m.logger.Info().Int("users", len(users)).Msg("开始警示巡检")

	for _, userID := range users {
		for _, cond := range m.store.Snapshot(userID) {
			m.evaluate(userID, cond)
		}
	}
}

// evaluate 评估单条警示条件
func (m *Monitor) evaluate(userID string, cond model.AlertCondition) {
	price, ok := m.market.LastPrice(cond.StockID)
	if !ok {
		// 条件保留，下一轮巡检再试
		m.logger.Debug().Str("stock_id", cond.StockID).Msg("无法取得现价，条件保留")
		return
	}

	m.logger.Debug().
		Str("stock_id", cond.StockID).
		Float64("price", price).
		Str("operator", cond.Operator).
		Float64("target", cond.Target).
		Msg("检查警示条件")

	if !cond.Triggered(price) {
		return
	}

	name := m.market.DisplayName(cond.StockID)
	msg := formatTriggerMessage(name, cond, price)

	if err := m.notifier.PushText(userID, msg); err != nil {
		// 通知失败时不移除条件，下一轮重试
		m.logger.Warn().Err(err).Str("user_id", userID).Str("stock_id", cond.StockID).Msg("警示通知发送失败")
		return
	}

	m.store.Remove(userID, cond.ID)
	m.logger.Info().Str("user_id", userID).Str("stock_id", cond.StockID).Float64("price", price).Msg("警示触发并移除")
}

// formatTriggerMessage 组装触发通知文案
func formatTriggerMessage(name string, cond model.AlertCondition, price float64) string {
	direction := "低於"
	if cond.Operator == model.OperatorAbove {
		direction = "高於"
	}
	target := strconv.FormatFloat(cond.Target, 'f', -1, 64)
	return fmt.Sprintf("📈 警示觸發：%s(%s) 現在約 %.2f 元，已%s %s 元", name, cond.StockID, price, direction, target)
}
