package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"StockMate/pkg/alert"
	"StockMate/pkg/command"
	"StockMate/pkg/line"
	"StockMate/pkg/model"
)

// 用户可见文案
const (
	msgPrivateOnly   = "⚠️ 抱歉，目前僅支援私訊（1對1聊天）查詢股票。"
	msgSearching     = "正在查詢股票資料，請稍後..."
	msgNoValidStocks = "❌ 未偵測到有效的股票代號。範例：查 2330 2317"
	msgAlertFormat   = "❌ 設定格式錯誤，請輸入範例：設定 2330 > 800"

	msgWelcome = "👋 歡迎加入台灣股市小幫手！\n\n" +
		"以下是你可以使用的功能指令：\n" +
		"📌 即時價格：輸入股票代碼，如 `2330`\n" +
		"📈 趨勢圖：輸入 `2330 30天` 或 `查 2330 2317`（請用空白分隔）\n" +
		"🔔 價格警示：輸入 `設定 2330 > 800`（請用空白分隔）\n" +
		"🧾 可透過 /check_alerts 觸發檢查（搭配外部排程）\n\n" +
		"範例：`查 2330 2881 2317`\n" +
		"🚀 祝你投資順利！"
)

// Messenger 消息收发接口
type Messenger interface {
	Reply(replyToken string, msgs ...line.Message) error
	Push(userID string, msgs ...line.Message) error
}

// Handler 入站事件处理器
type Handler struct {
	composer *Composer
	store    *alert.Store
	client   Messenger
	logger   zerolog.Logger
}

// NewHandler 创建事件处理器
func NewHandler(composer *Composer, store *alert.Store, client Messenger, logger zerolog.Logger) *Handler {
	return &Handler{
		composer: composer,
		store:    store,
		client:   client,
		logger:   logger.With().Str("component", "bot").Logger(),
	}
}

// HandleEvent 按事件类型分发
func (h *Handler) HandleEvent(event line.Event) {
	switch event.Type {
	case line.EventTypeMessage:
		h.handleMessage(event)
	case line.EventTypeFollow:
		h.handleFollow(event)
	default:
		h.logger.Debug().Str("type", event.Type).Msg("忽略未支持的事件类型")
	}
}

// handleMessage 处理文字消息事件
func (h *Handler) handleMessage(event line.Event) {
	if event.Message == nil || event.Message.Type != line.MessageTypeText {
		return
	}

	// 仅支持1对1私讯
	if event.Source.Type != line.SourceTypeUser {
		h.reply(event.ReplyToken, msgPrivateOnly)
		return
	}

	userID := event.Source.UserID
	text := strings.TrimSpace(event.Message.Text)

	cmd, err := command.Parse(text)
	if err != nil {
		var parseErr *command.ParseError
		if errors.As(err, &parseErr) {
			h.logger.Debug().Str("reason", parseErr.Reason).Str("text", text).Msg("警示设定格式错误")
		}
		h.reply(event.ReplyToken, msgAlertFormat)
		return
	}

	switch cmd.Type {
	case command.TypeAlertSet:
		h.handleAlertSet(userID, event.ReplyToken, cmd.Alert)
	case command.TypeLookup:
		h.handleLookup(userID, event.ReplyToken, cmd)
	}
}

// handleAlertSet 处理警示设定指令
func (h *Handler) handleAlertSet(userID, replyToken string, req *command.AlertRequest) {
	cond := model.NewAlertCondition(req.StockID, req.Operator, req.Target)
	h.store.Add(userID, cond)

	target := strconv.FormatFloat(req.Target, 'f', -1, 64)
	h.reply(replyToken, fmt.Sprintf("✅ 已設定：當 %s %s %s 時通知你", req.StockID, req.Operator, target))

	h.logger.Info().
		Str("user_id", userID).
		Str("stock_id", req.StockID).
		Str("operator", req.Operator).
		Float64("target", req.Target).
		Msg("新增警示条件")
}

// handleLookup 处理查询指令
// 先回覆一次排队提示，再对每个代号依序推送结果。
func (h *Handler) handleLookup(userID, replyToken string, cmd *command.Command) {
	if cmd.Mode == command.ModeMulti && len(cmd.StockIDs) == 0 {
		h.reply(replyToken, msgNoValidStocks)
		return
	}
	if len(cmd.StockIDs) == 0 {
		// 空输入视为无操作
		return
	}

	h.reply(replyToken, msgSearching)

	for _, stockID := range cmd.StockIDs {
		result := h.composer.Compose(stockID, cmd.Days)

		msgs := []line.Message{line.NewTextMessage(result.Text)}
		if result.ImageURL != "" {
			msgs = append(msgs, line.NewImageMessage(result.ImageURL))
		}

		if err := h.client.Push(userID, msgs...); err != nil {
			h.logger.Warn().Err(err).Str("user_id", userID).Str("stock_id", stockID).Msg("推送查询结果失败")
		}
	}
}

// handleFollow 处理加入好友事件
func (h *Handler) handleFollow(event line.Event) {
	if err := h.client.Push(event.Source.UserID, line.NewTextMessage(msgWelcome)); err != nil {
		h.logger.Warn().Err(err).Str("user_id", event.Source.UserID).Msg("推送欢迎消息失败")
	}
}

// reply 回覆文字消息，失败仅记录日志
func (h *Handler) reply(replyToken, text string) {
	if err := h.client.Reply(replyToken, line.NewTextMessage(text)); err != nil {
		h.logger.Warn().Err(err).Msg("回覆消息失败")
	}
}
