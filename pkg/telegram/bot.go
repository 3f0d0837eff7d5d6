package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SecretTokenHeader carries the webhook secret on every update Telegram posts.
const SecretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

var messageUpdates = []string{"message"}

// Bot is the Telegram Bot API client.
type Bot struct {
	token      string
	apiURL     string
	httpClient *http.Client
}

// NewBot creates a new Telegram Bot client with the given token.
func NewBot(token string) *Bot {
	return &Bot{
		token:      token,
		apiURL:     fmt.Sprintf("https://api.telegram.org/bot%s", token),
		httpClient: &http.Client{Timeout: 90 * time.Second},
	}
}

// SetAPIURL overrides the default Telegram API URL for testing purposes.
func (b *Bot) SetAPIURL(url string) {
	b.apiURL = url
}

// SetWebhook registers the webhook URL with Telegram. A non-empty
// secretToken is echoed back in SecretTokenHeader on every update.
func (b *Bot) SetWebhook(ctx context.Context, webhookURL, secretToken string) error {
	var apiResp APIResponse
	err := b.call(ctx, "setWebhook", SetWebhookRequest{
		URL:            webhookURL,
		SecretToken:    secretToken,
		AllowedUpdates: messageUpdates,
	}, &apiResp)
	if err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}
	if !apiResp.OK {
		return fmt.Errorf("telegram setWebhook failed: %s", apiResp.Description)
	}
	return nil
}

// DeleteWebhook removes the webhook so getUpdates can be used.
func (b *Bot) DeleteWebhook(ctx context.Context) error {
	var apiResp APIResponse
	if err := b.call(ctx, "deleteWebhook", struct{}{}, &apiResp); err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}
	if !apiResp.OK {
		return fmt.Errorf("telegram deleteWebhook failed: %s", apiResp.Description)
	}
	return nil
}

// GetUpdates long-polls for message updates with id >= offset.
func (b *Bot) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error) {
	var resp UpdatesResponse
	err := b.call(ctx, "getUpdates", GetUpdatesRequest{
		Offset:         offset,
		Timeout:        int(timeout / time.Second),
		AllowedUpdates: messageUpdates,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("failed to get updates: %w", err)
	}
	if !resp.OK {
		return nil, fmt.Errorf("telegram getUpdates failed: %s", resp.Description)
	}
	return resp.Result, nil
}

// SendMessage sends a plain text message to a Telegram chat.
func (b *Bot) SendMessage(ctx context.Context, chatID int64, text string) error {
	return b.SendMessageWithMode(ctx, chatID, text, "")
}

// SendMessageWithMode sends a message with optional parse mode (e.g. "Markdown").
func (b *Bot) SendMessageWithMode(ctx context.Context, chatID int64, text string, parseMode string) error {
	return b.SendMessageWithKeyboard(ctx, chatID, text, parseMode, nil)
}

// SendMessageWithKeyboard sends a message and attaches a reply keyboard when keyboard is non-nil.
func (b *Bot) SendMessageWithKeyboard(ctx context.Context, chatID int64, text string, parseMode string, keyboard *ReplyKeyboardMarkup) error {
	return b.send(ctx, SendMessageRequest{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   parseMode,
		ReplyMarkup: keyboard,
	})
}

func (b *Bot) send(ctx context.Context, payload SendMessageRequest) error {
	resp, err := b.post(ctx, "sendMessage", payload)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram sendMessage API error %d: %s", resp.StatusCode, string(raw))
	}
	return nil
}

// call posts payload to method and decodes the JSON body into out regardless of status.
func (b *Bot) call(ctx context.Context, method string, payload any, out any) error {
	resp, err := b.post(ctx, method, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	return nil
}

func (b *Bot) post(ctx context.Context, method string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/%s", b.apiURL, method), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return b.httpClient.Do(req)
}
