package market

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"StockMate/pkg/model"
)

// Service 行情检索层
// 所有操作均为尽力而为：上游数据源不稳定时逐层降级，
// 绝不向调用方抛出错误，调用方总能产生用户可见的回应。
type Service struct {
	provider Provider
	cache    *NameCache
	logger   zerolog.Logger
}

// NewService 创建行情检索服务
func NewService(provider Provider, cache *NameCache, logger zerolog.Logger) *Service {
	return &Service{
		provider: provider,
		cache:    cache,
		logger:   logger.With().Str("component", "market").Logger(),
	}
}

// priceSource 单层价格来源
type priceSource struct {
	name  string
	fetch func() (float64, error)
}

// LastPrice 尽力取得最新价格
// 依序尝试：轻量报价 → 1日1分K最后收盘 → 5日日K最后收盘。
// 每层失败互相隔离，全部失败时返回 false。
func (s *Service) LastPrice(stockID string) (float64, bool) {
	symbol := ToYahooSymbol(stockID)

	sources := []priceSource{
		{"fast_quote", func() (float64, error) {
			return s.provider.FastPrice(symbol)
		}},
		{"chart_1d_1m", func() (float64, error) {
			return s.latestClose(symbol, "1d", "1m")
		}},
		{"chart_5d_1d", func() (float64, error) {
			return s.latestClose(symbol, "5d", "1d")
		}},
	}

	for _, source := range sources {
		price, err := source.fetch()
		if err != nil {
			s.logger.Debug().Err(err).
				Str("stock_id", stockID).
				Str("source", source.name).
				Msg("价格来源不可用，尝试下一层")
			continue
		}
		return price, true
	}

	s.logger.Warn().Str("stock_id", stockID).Msg("所有价格来源均不可用")
	return 0, false
}

// latestClose 取收盘序列的最后一笔
func (s *Service) latestClose(symbol, dataRange, interval string) (float64, error) {
	history, err := s.provider.Chart(symbol, dataRange, interval)
	if err != nil {
		return 0, err
	}

	price, ok := history.Latest()
	if !ok {
		return 0, fmt.Errorf("收盘序列为空: %s %s/%s", symbol, dataRange, interval)
	}
	return price, nil
}

// Quote 组合即时价与显示名称为一笔报价
// 取价失败时 HasPrice 为 false，且不再浪费一次名称查询。
func (s *Service) Quote(stockID string) model.Quote {
	quote := model.Quote{
		StockID:   stockID,
		Timestamp: time.Now(),
	}

	price, ok := s.LastPrice(stockID)
	if !ok {
		return quote
	}

	quote.Price = price
	quote.HasPrice = true
	quote.Name = s.DisplayName(stockID)
	return quote
}

// DisplayName 尽力取得股票显示名称
// 命中缓存直接返回；上游失败时以代号本身作为降级名称。
func (s *Service) DisplayName(stockID string) string {
	if name, ok := s.cache.Get(stockID); ok {
		return name
	}

	name, err := s.provider.QuoteName(ToYahooSymbol(stockID))
	if err != nil {
		s.logger.Debug().Err(err).Str("stock_id", stockID).Msg("名称查询失败，以代号代替")
		return stockID
	}

	s.cache.Set(stockID, name)
	return name
}

// History 获取最近N个交易日的收盘序列
// 多请求一段日历日以吸收周末与休市日，再截取尾端N笔。
func (s *Service) History(stockID string, days int) (model.PriceHistory, bool) {
	if days <= 0 {
		days = 5
	}

	reqDays := days * 3
	if buffered := days + 10; buffered > reqDays {
		reqDays = buffered
	}

	history, err := s.provider.Chart(ToYahooSymbol(stockID), fmt.Sprintf("%dd", reqDays), "1d")
	if err != nil {
		s.logger.Debug().Err(err).Str("stock_id", stockID).Int("days", days).Msg("历史行情获取失败")
		return nil, false
	}
	if len(history) == 0 {
		return nil, false
	}

	if len(history) > days {
		history = history[len(history)-days:]
	}
	return history, true
}
