package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type TelegramNotifier struct {
	botToken string
	chatID   string
	endpoint string
	client   *http.Client
}

func NewTelegramNotifier(botToken string, chatID string) *TelegramNotifier {
	return &TelegramNotifier{
		botToken: strings.TrimSpace(botToken),
		chatID:   strings.TrimSpace(chatID),
		endpoint: "https://api.telegram.org",
		client: &http.Client{
			Timeout: 8 * time.Second,
		},
	}
}

func (notifier *TelegramNotifier) Enabled() bool {
	return notifier.botToken != "" && notifier.chatID != ""
}

func (notifier *TelegramNotifier) NotifyWeeklyStreak(ctx context.Context, count int) error {
	message := fmt.Sprintf("Gymcal: every workout this week is done so far (%d completed). Keep the streak going!", count)
	return notifier.send(ctx, message)
}

func (notifier *TelegramNotifier) send(ctx context.Context, message string) error {
	values := url.Values{}
	values.Set("chat_id", notifier.chatID)
	values.Set("text", message)

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", notifier.endpoint, notifier.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := notifier.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("telegram status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

// LogNotifier stands in for Telegram when no bot is configured.
type LogNotifier struct{}

func (LogNotifier) NotifyWeeklyStreak(_ context.Context, count int) error {
	logrus.Infof("notifications: weekly streak reached, %d workout(s) completed", count)
	return nil
}
