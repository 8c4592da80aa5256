package telegram

// Package telegram delivers rendered charts to a Telegram chat.
// Sends are throttled by a rate limiter, retried on 429/5xx and guarded by a
// circuit breaker so a dead API does not stall the batch.

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	logging "demand-graphs/internal/infra/log"
	"demand-graphs/internal/infra/retry"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Sender is the part of *tgbotapi.BotAPI the publisher needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Options configures a Publisher.
type Options struct {
	ChatID        int64
	RatePerSecond float64
	MaxRetries    int
	BaseDelay     time.Duration
	MaxDelay      time.Duration
}

// Publisher sends chart images as photos.
type Publisher struct {
	sender         Sender
	chatID         int64
	rateLimiter    *rate.Limiter
	circuitBreaker *gobreaker.CircuitBreaker
	retry          retry.Options
}

// NewBotPublisher authorizes token against the Bot API and returns a Publisher for it.
func NewBotPublisher(token string, opts Options) (*Publisher, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to authorize telegram bot: %w", err)
	}
	logging.LogSuccess("Telegram bot authorized", zap.String("username", bot.Self.UserName))
	return NewPublisher(bot, opts), nil
}

// NewPublisher wraps sender.
func NewPublisher(sender Sender, opts Options) *Publisher {
	if opts.RatePerSecond <= 0 {
		opts.RatePerSecond = 1
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = time.Second
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = 30 * time.Second
	}

	circuitBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "TelegramAPI",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	return &Publisher{
		sender:         sender,
		chatID:         opts.ChatID,
		rateLimiter:    rate.NewLimiter(rate.Limit(opts.RatePerSecond), 1),
		circuitBreaker: circuitBreaker,
		retry: retry.Options{
			MaxRetries: opts.MaxRetries,
			BaseDelay:  opts.BaseDelay,
			MaxDelay:   opts.MaxDelay,
		},
	}
}

// ParseChatID accepts numeric chat ids such as "-1001234567890".
func ParseChatID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid telegram chat id %q: %w", s, err)
	}
	return id, nil
}

// Publish sends the image at path with caption.
func (p *Publisher) Publish(ctx context.Context, path, caption string) error {
	requestID := uuid.NewString()
	start := time.Now()
	logging.LogRequest(requestID, "sendPhoto", "telegram", zap.String("file", path))

	err := retry.Do(ctx, p.retry, func() error {
		if err := p.rateLimiter.Wait(ctx); err != nil {
			return err
		}
		_, err := p.circuitBreaker.Execute(func() (interface{}, error) {
			photo := tgbotapi.NewPhoto(p.chatID, tgbotapi.FilePath(path))
			photo.Caption = caption
			msg, err := p.sender.Send(photo)
			if err != nil {
				return nil, toAPIError(err)
			}
			return msg, nil
		})
		return err
	})

	logging.LogResponse(requestID, err == nil, time.Since(start).Milliseconds(),
		zap.String("endpoint", "telegram sendPhoto"),
		zap.String("file", path))
	if err != nil {
		return fmt.Errorf("failed to send %s to telegram: %w", path, err)
	}
	return nil
}

func toAPIError(err error) error {
	var te *tgbotapi.Error
	if errors.As(err, &te) {
		return &retry.APIError{
			StatusCode: te.Code,
			Message:    te.Message,
			RetryAfter: time.Duration(te.RetryAfter) * time.Second,
		}
	}
	var tv tgbotapi.Error
	if errors.As(err, &tv) {
		return &retry.APIError{
			StatusCode: tv.Code,
			Message:    tv.Message,
			RetryAfter: time.Duration(tv.RetryAfter) * time.Second,
		}
	}
	return err
}
