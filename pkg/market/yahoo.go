package market

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"StockMate/pkg/model"
)

// YahooClient Yahoo Finance API客户端
type YahooClient struct {
	BaseURL string
	Client  *http.Client
}

// NewYahooClient 创建新的Yahoo Finance客户端
func NewYahooClient(baseURL string, timeout time.Duration) *YahooClient {
	return &YahooClient{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

// chartResponse v8 chart API响应结构
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *apiError     `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta struct {
		Symbol             string   `json:"symbol"`
		RegularMarketPrice *float64 `json:"regularMarketPrice"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}

// quoteResponse v7 quote API响应结构
type quoteResponse struct {
	QuoteResponse struct {
		Result []quoteResult `json:"result"`
		Error  *apiError     `json:"error"`
	} `json:"quoteResponse"`
}

type quoteResult struct {
	Symbol             string   `json:"symbol"`
	ShortName          string   `json:"shortName"`
	LongName           string   `json:"longName"`
	RegularMarketPrice *float64 `json:"regularMarketPrice"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// get 执行GET请求并解码JSON响应
func (c *YahooClient) get(path string, query url.Values, out interface{}) error {
	reqURL := fmt.Sprintf("%s%s?%s", c.BaseURL, path, query.Encode())

	req, err := http.NewRequest(http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("创建HTTP请求失败: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; StockMate/1.0)")

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("执行HTTP请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API返回非200状态码: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("读取响应体失败: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("解析响应失败: %w", err)
	}

	return nil
}

// Chart 获取K线数据并转换为收盘序列
// 空收盘值（停牌、尚未收盘的分钟线）在此处直接剔除。
func (c *YahooClient) Chart(symbol, dataRange, interval string) (model.PriceHistory, error) {
	query := url.Values{}
	query.Set("range", dataRange)
	query.Set("interval", interval)

	var chartResp chartResponse
	if err := c.get("/v8/finance/chart/"+url.PathEscape(symbol), query, &chartResp); err != nil {
		return nil, err
	}

	if chartResp.Chart.Error != nil {
		return nil, fmt.Errorf("API返回错误: %s", chartResp.Chart.Error.Description)
	}
	if len(chartResp.Chart.Result) == 0 {
		return nil, fmt.Errorf("响应中缺少行情数据: %s", symbol)
	}

	result := chartResp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("响应中缺少收盘数据: %s", symbol)
	}

	closes := result.Indicators.Quote[0].Close
	history := make(model.PriceHistory, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		history = append(history, model.HistoryPoint{
			Date:  time.Unix(ts, 0),
			Close: *closes[i],
		})
	}

	return history, nil
}

// fetchQuote 获取单一股票的报价摘要
func (c *YahooClient) fetchQuote(symbol string) (*quoteResult, error) {
	query := url.Values{}
	query.Set("symbols", symbol)

	var quoteResp quoteResponse
	if err := c.get("/v7/finance/quote", query, &quoteResp); err != nil {
		return nil, err
	}

	if quoteResp.QuoteResponse.Error != nil {
		return nil, fmt.Errorf("API返回错误: %s", quoteResp.QuoteResponse.Error.Description)
	}
	if len(quoteResp.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("未找到股票报价: %s", symbol)
	}

	return &quoteResp.QuoteResponse.Result[0], nil
}

// FastPrice 轻量级即时价查询
func (c *YahooClient) FastPrice(symbol string) (float64, error) {
	quote, err := c.fetchQuote(symbol)
	if err != nil {
		return 0, err
	}
	if quote.RegularMarketPrice == nil {
		return 0, fmt.Errorf("报价中缺少最新价: %s", symbol)
	}
	return *quote.RegularMarketPrice, nil
}

// QuoteName 获取股票显示名称
func (c *YahooClient) QuoteName(symbol string) (string, error) {
	quote, err := c.fetchQuote(symbol)
	if err != nil {
		return "", err
	}
	if quote.ShortName != "" {
		return quote.ShortName, nil
	}
	if quote.LongName != "" {
		return quote.LongName, nil
	}
	return "", fmt.Errorf("报价中缺少名称: %s", symbol)
}
