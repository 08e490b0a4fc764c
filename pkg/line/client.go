package line

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Message LINE消息负载
type Message interface {
	messageType() string
}

// TextMessage 文字消息
type TextMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (m TextMessage) messageType() string { return m.Type }

// NewTextMessage 创建文字消息
func NewTextMessage(text string) TextMessage {
	return TextMessage{Type: "text", Text: text}
}

// ImageMessage 图片消息
type ImageMessage struct {
	Type               string `json:"type"`
	OriginalContentURL string `json:"originalContentUrl"`
	PreviewImageURL    string `json:"previewImageUrl"`
}

func (m ImageMessage) messageType() string { return m.Type }

// NewImageMessage 创建图片消息，原图与预览共用同一URL
func NewImageMessage(imageURL string) ImageMessage {
	return ImageMessage{
		Type:               "image",
		OriginalContentURL: imageURL,
		PreviewImageURL:    imageURL,
	}
}

// Client LINE Messaging API客户端
type Client struct {
	Endpoint string
	Token    string
	Client   *http.Client
}

// NewClient 创建LINE客户端
func NewClient(endpoint, token string, timeout time.Duration) *Client {
	return &Client{
		Endpoint: endpoint,
		Token:    token,
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

// replyRequest 回覆消息请求
type replyRequest struct {
	ReplyToken string    `json:"replyToken"`
	Messages   []Message `json:"messages"`
}

// pushRequest 主动推送请求
type pushRequest struct {
	To       string    `json:"to"`
	Messages []Message `json:"messages"`
}

// Reply 以回覆令牌回覆消息
func (c *Client) Reply(replyToken string, msgs ...Message) error {
	return c.post("/v2/bot/message/reply", replyRequest{
		ReplyToken: replyToken,
		Messages:   msgs,
	})
}

// Push 向指定用户主动推送消息
func (c *Client) Push(userID string, msgs ...Message) error {
	return c.post("/v2/bot/message/push", pushRequest{
		To:       userID,
		Messages: msgs,
	})
}

// PushText 推送单条文字消息
func (c *Client) PushText(userID, text string) error {
	return c.Push(userID, NewTextMessage(text))
}

// post 执行API请求
func (c *Client) post(path string, payload interface{}) error {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("序列化请求失败: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.Endpoint+path, bytes.NewBuffer(reqBody))
	if err != nil {
		return fmt.Errorf("创建HTTP请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("执行HTTP请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("API返回非2xx状态码: %d, 响应: %s", resp.StatusCode, string(body))
	}

	return nil
}
