package bot

import (
	"fmt"

	"github.com/rs/zerolog"

	"StockMate/pkg/chart"
	"StockMate/pkg/market"
)

// Reply 单一股票的查询结果
// Text 永不为空；ImageURL 仅在趋势图与公开地址都可用时填写。
type Reply struct {
	OK       bool
	Text     string
	ImageURL string
}

// Composer 回覆组装器
type Composer struct {
	market        *market.Service
	chart         *chart.Renderer
	publicBaseURL string
	logger        zerolog.Logger
}

// NewComposer 创建回覆组装器
func NewComposer(marketSvc *market.Service, renderer *chart.Renderer, publicBaseURL string, logger zerolog.Logger) *Composer {
	return &Composer{
		market:        marketSvc,
		chart:         renderer,
		publicBaseURL: publicBaseURL,
		logger:        logger.With().Str("component", "composer").Logger(),
	}
}

// priceText 组装价格文案
// 代号非法与取价失败分别给出可区分的说明。
func (c *Composer) priceText(stockID string) (bool, string) {
	if !market.IsValidStockID(stockID) {
		return false, fmt.Sprintf("「%s」不是合法的股票代號。", stockID)
	}

	quote := c.market.Quote(stockID)
	if !quote.HasPrice {
		return false, fmt.Sprintf("⚠️ 無法取得 %s 的最新價格（資料可能暫時不可用）。", stockID)
	}

	return true, fmt.Sprintf("%s(%s) 目前價格：約 %.2f 元", quote.Name, stockID, quote.Price)
}

// Compose 组装单一股票的完整回覆
// 任何环节失败都降级为纯文字说明，永远不会让调用方拿不到文案。
func (c *Composer) Compose(stockID string, days int) Reply {
	ok, text := c.priceText(stockID)
	if !ok {
		return Reply{OK: false, Text: text}
	}

	if _, rendered := c.chart.RenderTrend(stockID, days); !rendered {
		return Reply{OK: true, Text: text + "\n⚠️ 趨勢圖資料暫時不可用（可能是資料源或交易日不足）。"}
	}

	if c.publicBaseURL == "" {
		return Reply{OK: true, Text: text + "\n⚠️ 尚未設定 BASE_URL，無法提供圖片連結。"}
	}

	return Reply{
		OK:       true,
		Text:     text,
		ImageURL: fmt.Sprintf("%s/static/%s", c.publicBaseURL, chart.Filename(stockID)),
	}
}
