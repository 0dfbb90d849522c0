package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"internwatch/internal/domain"

	"golang.org/x/time/rate"
)

const DefaultTelegramAPI = "https://api.telegram.org"

type TelegramConfig struct {
	Token   string
	ChatID  string
	APIBase string // DefaultTelegramAPI when empty
	Timeout time.Duration

	// MinInterval spaces messages to the chat. Telegram allows about one
	// message per second to the same chat.
	MinInterval time.Duration
}

// Telegram posts messages through the Bot API's sendMessage method.
type Telegram struct {
	cfg     TelegramConfig
	hc      *http.Client
	limiter *rate.Limiter
	format  Formatter
}

func NewTelegram(cfg TelegramConfig, format Formatter) *Telegram {
	cfg.APIBase = strings.TrimSuffix(cfg.APIBase, "/")
	if cfg.APIBase == "" {
		cfg.APIBase = DefaultTelegramAPI
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = time.Second
	}
	return &Telegram{
		cfg:     cfg,
		hc:      &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Every(cfg.MinInterval), 1),
		format:  format,
	}
}

type inlineButton struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

type replyMarkup struct {
	InlineKeyboard [][]inlineButton `json:"inline_keyboard"`
}

type sendMessageRequest struct {
	ChatID                string       `json:"chat_id"`
	Text                  string       `json:"text"`
	ParseMode             string       `json:"parse_mode"`
	DisableWebPagePreview bool         `json:"disable_web_page_preview"`
	ReplyMarkup           *replyMarkup `json:"reply_markup,omitempty"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (t *Telegram) SendPosting(ctx context.Context, p domain.Posting) error {
	req := sendMessageRequest{
		ChatID:                t.cfg.ChatID,
		Text:                  t.format.FormatPosting(p),
		ParseMode:             "Markdown",
		DisableWebPagePreview: true,
	}
	if p.ActionURL != "" {
		req.ReplyMarkup = &replyMarkup{InlineKeyboard: [][]inlineButton{{
			{Text: fmt.Sprintf("Apply on %s 🚀", p.Source), URL: p.ActionURL},
		}}}
	}
	return t.send(ctx, req)
}

func (t *Telegram) SendSummary(ctx context.Context, stats domain.RunStats) error {
	return t.send(ctx, sendMessageRequest{
		ChatID:                t.cfg.ChatID,
		Text:                  t.format.FormatSummary(stats),
		ParseMode:             "Markdown",
		DisableWebPagePreview: true,
	})
}

func (t *Telegram) SendError(ctx context.Context, err error) error {
	return t.send(ctx, sendMessageRequest{
		ChatID:    t.cfg.ChatID,
		Text:      t.format.FormatError(err),
		ParseMode: "Markdown",
	})
}

func (t *Telegram) send(ctx context.Context, msg sendMessageRequest) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("telegram: %w: %v", domain.ErrNotificationDelivery, err)
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.cfg.APIBase, t.cfg.Token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram: %w: %v", domain.ErrNotificationDelivery, err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := t.hc.Do(req)
	if err != nil {
		// The URL carries the token; keep it out of logs.
		return fmt.Errorf("telegram send: %w: %s", domain.ErrNotificationDelivery, redact(err.Error(), t.cfg.Token))
	}
	defer res.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(res.Body, 64<<10))
	var out apiResponse
	_ = json.Unmarshal(raw, &out)

	if res.StatusCode >= 400 || !out.OK {
		desc := out.Description
		if desc == "" {
			desc = strings.TrimSpace(string(raw))
		}
		return fmt.Errorf("telegram status %d: %w: %s", res.StatusCode, domain.ErrNotificationDelivery, desc)
	}
	return nil
}

func redact(s, token string) string {
	if token == "" {
		return s
	}
	return strings.ReplaceAll(s, token, "<token>")
}
