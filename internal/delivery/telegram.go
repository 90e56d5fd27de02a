package delivery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/wonny/alpha/pkg/config"
	"github.com/wonny/alpha/pkg/httputil"
	"github.com/wonny/alpha/pkg/logger"
)

// TelegramNotifier sends the run summary to a Telegram chat
// ⭐ SSOT: 텔레그램 알림은 여기서만
type TelegramNotifier struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	cfg        config.TelegramConfig
	baseURL    string
}

// NewTelegramNotifier creates a summary notifier
func NewTelegramNotifier(cfg config.TelegramConfig, httpClient *httputil.Client, log *logger.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		httpClient: httpClient,
		logger:     log,
		cfg:        cfg,
		baseURL:    "https://api.telegram.org",
	}
}

// WithBaseURL overrides the API host, used by tests
func (n *TelegramNotifier) WithBaseURL(base string) *TelegramNotifier {
	n.baseURL = base
	return n
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Notify sends one summary message
func (n *TelegramNotifier) Notify(ctx context.Context, summary string) error {
	apiURL := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.cfg.BotToken)

	payload := map[string]interface{}{
		"chat_id": n.cfg.ChatID,
		"text":    summary,
	}

	resp, err := n.httpClient.PostJSON(ctx, apiURL, payload, nil)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("send message: status %d: %s", resp.StatusCode, string(body))
	}

	var sendResp sendMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&sendResp); err != nil {
		return fmt.Errorf("decode send response: %w", err)
	}
	if !sendResp.OK {
		return fmt.Errorf("telegram rejected message: %s", sendResp.Description)
	}

	n.logger.Debug("Notification sent")
	return nil
}
