package market

import (
	"StockMate/pkg/model"
)

// Provider 行情数据获取接口
type Provider interface {
	// FastPrice 轻量级即时价查询，可能略有延迟
	FastPrice(symbol string) (float64, error)
	// Chart 获取指定区间与周期的收盘序列
	Chart(symbol, dataRange, interval string) (model.PriceHistory, error)
	// QuoteName 获取股票显示名称
	QuoteName(symbol string) (string, error)
}

var _ Provider = (*YahooClient)(nil)
