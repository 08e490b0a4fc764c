package line

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Webhook事件与来源类型
const (
	EventTypeMessage = "message"
	EventTypeFollow  = "follow"

	SourceTypeUser = "user"

	MessageTypeText = "text"
)

// Webhook 回调请求体
type Webhook struct {
	Destination string  `json:"destination"`
	Events      []Event `json:"events"`
}

// Event 单个Webhook事件
type Event struct {
	Type       string        `json:"type"`
	ReplyToken string        `json:"replyToken"`
	Source     Source        `json:"source"`
	Message    *EventMessage `json:"message,omitempty"`
	Timestamp  int64         `json:"timestamp"`
}

// Source 事件来源
type Source struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
}

// EventMessage 消息事件内容
type EventMessage struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Text string `json:"text"`
}

// ParseWebhook 解析回调请求体
func ParseWebhook(body []byte) (*Webhook, error) {
	var webhook Webhook
	if err := json.Unmarshal(body, &webhook); err != nil {
		return nil, fmt.Errorf("解析Webhook请求失败: %w", err)
	}
	return &webhook, nil
}

// ValidateSignature 校验回调签名
// LINE以channel secret对请求体做HMAC-SHA256后base64编码，
// 与 X-Line-Signature 头比对。
func ValidateSignature(channelSecret, signature string, body []byte) bool {
	decoded, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(channelSecret))
	mac.Write(body)
	return hmac.Equal(decoded, mac.Sum(nil))
}
