package model

import (
	"time"
)

// Quote 个股即时报价
type Quote struct {
	StockID   string    `json:"stock_id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	HasPrice  bool      `json:"has_price"`
	Timestamp time.Time `json:"timestamp"`
}

// HistoryPoint 单日收盘数据点
type HistoryPoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// PriceHistory 日线收盘序列，按时间升序排列
type PriceHistory []HistoryPoint

// Latest 返回序列中最后一个收盘价
func (h PriceHistory) Latest() (float64, bool) {
	if len(h) == 0 {
		return 0, false
	}
	return h[len(h)-1].Close, true
}
