package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"StockMate/pkg/alert"
	"StockMate/pkg/bot"
	"StockMate/pkg/line"
)

// Handlers API处理程序
type Handlers struct {
	bot           *bot.Handler
	monitor       *alert.Monitor
	channelSecret string
	logger        zerolog.Logger
}

// NewHandlers 创建新的API处理程序
func NewHandlers(botHandler *bot.Handler, monitor *alert.Monitor, channelSecret string, logger zerolog.Logger) *Handlers {
	return &Handlers{
		bot:           botHandler,
		monitor:       monitor,
		channelSecret: channelSecret,
		logger:        logger.With().Str("component", "handlers").Logger(),
	}
}

// HealthCheck 健康检查处理程序
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Home 根路径探活
func (h *Handlers) Home(c *gin.Context) {
	c.String(http.StatusOK, "OK - LINE Bot server is running")
}

// Callback LINE Webhook回调处理程序
// 签名不合法返回400；其余任何处理异常都吞掉并回200，
// 保证Webhook通道不被LINE平台判定为失效。
func (h *Handlers) Callback(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.logger.Error().Err(err).Msg("读取Webhook请求体失败")
		c.String(http.StatusOK, "OK")
		return
	}

	signature := c.GetHeader("X-Line-Signature")
	if !line.ValidateSignature(h.channelSecret, signature, body) {
		h.logger.Warn().Msg("Webhook签名校验失败")
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	webhook, err := line.ParseWebhook(body)
	if err != nil {
		h.logger.Error().Err(err).Msg("解析Webhook请求失败")
		c.String(http.StatusOK, "OK")
		return
	}

	for _, event := range webhook.Events {
		h.dispatch(event)
	}

	c.String(http.StatusOK, "OK")
}

// dispatch 处理单个事件，异常不外泄
func (h *Handlers) dispatch(event line.Event) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error().Interface("panic", r).Str("event_type", event.Type).Msg("事件处理异常")
		}
	}()

	h.bot.HandleEvent(event)
}

// CheckAlerts 执行一轮警示巡检
// 供外部排程（cron）或手动触发。
func (h *Handlers) CheckAlerts(c *gin.Context) {
	h.monitor.RunSweep()
	c.String(http.StatusOK, "✅ 價格警示已檢查")
}
