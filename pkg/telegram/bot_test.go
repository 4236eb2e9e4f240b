package telegram

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBot(serverURL string) *Bot {
	return &Bot{
		token:   "test-token",
		baseURL: serverURL,
		client:  &http.Client{Timeout: time.Second},
	}
}

func TestSendMessagePostsForm(t *testing.T) {
	var gotChatID, gotText string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotChatID = r.FormValue("chat_id")
		gotText = r.FormValue("text")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	bot := newTestBot(server.URL)
	require.NoError(t, bot.SendMessage("4815162342", "Pesanan dibuat!"))
	assert.Equal(t, "4815162342", gotChatID)
	assert.Equal(t, "Pesanan dibuat!", gotText)
}

func TestSendMessageReportsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	bot := newTestBot(server.URL)
	err := bot.SendMessage("4815162342", "hi")
	assert.ErrorContains(t, err, "telegram API error")
}
