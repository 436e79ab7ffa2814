package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// TelegramSender posts messages through the Telegram Bot API.
type TelegramSender struct {
	botToken   string
	chatID     string
	httpClient *http.Client
	baseURL    string
}

func NewTelegramSender(botToken, chatID string) *TelegramSender {
	return &TelegramSender{
		botToken: botToken,
		chatID:   chatID,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: "https://api.telegram.org",
	}
}

type telegramSendMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// TelegramResponse is the envelope every Bot API call returns.
type TelegramResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code,omitempty"`
	Description string `json:"description,omitempty"`
}

func (s *TelegramSender) Notify(ctx context.Context, msg Message) error {
	text := msg.Text
	if msg.Subject != "" {
		text = "<b>" + msg.Subject + "</b>\n" + text
	}
	chatID := s.chatID
	if msg.Destination != "" {
		chatID = msg.Destination
	}
	if chatID == "" {
		return errors.New("telegram: no chat to deliver to")
	}
	body, err := json.Marshal(telegramSendMessage{ChatID: chatID, Text: text, ParseMode: "HTML"})
	if err != nil {
		return errors.Wrap(err, "failed to marshal telegram message")
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.baseURL, s.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "failed to create telegram request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to send telegram message")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read telegram response")
	}

	var result TelegramResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return errors.Wrapf(err, "telegram returned status %d", resp.StatusCode)
	}
	if !result.OK {
		return errors.Errorf("telegram API error %d: %s", result.ErrorCode, result.Description)
	}
	return nil
}
