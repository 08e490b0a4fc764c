package line

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_PushSendsBearerAndPayload(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", 5*time.Second)
	err := client.Push("U123", NewTextMessage("hello"), NewImageMessage("https://x/y.png"))
	require.NoError(t, err)

	assert.Equal(t, "/v2/bot/message/push", gotPath)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "U123", gotBody["to"])

	msgs, ok := gotBody["messages"].([]interface{})
	require.True(t, ok)
	require.Len(t, msgs, 2)

	first := msgs[0].(map[string]interface{})
	assert.Equal(t, "text", first["type"])
	assert.Equal(t, "hello", first["text"])

	second := msgs[1].(map[string]interface{})
	assert.Equal(t, "image", second["type"])
	assert.Equal(t, "https://x/y.png", second["originalContentUrl"])
	assert.Equal(t, "https://x/y.png", second["previewImageUrl"])
}

func TestClient_ReplyUsesReplyToken(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", 5*time.Second)
	err := client.Reply("token-1", NewTextMessage("hi"))
	require.NoError(t, err)

	assert.Equal(t, "/v2/bot/message/reply", gotPath)
	assert.Equal(t, "token-1", gotBody["replyToken"])
}

func TestClient_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid token"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad-token", 5*time.Second)
	err := client.PushText("U123", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
