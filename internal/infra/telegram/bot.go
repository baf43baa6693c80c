package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/romatertia749-eng/StudNet/internal/infra/httpclient"
)

const botRequestTimeout = 60 * time.Second

type Bot struct {
	api *tgbotapi.BotAPI
}

type CommandUpdate struct {
	ChatID   int64
	UserID   int64
	Username string
	Command  string
	Args     string
}

type TextUpdate struct {
	ChatID   int64
	UserID   int64
	Username string
	Text     string
}

type Handlers struct {
	OnCommand func(context.Context, CommandUpdate) error
	OnText    func(context.Context, TextUpdate) error
}

func NewBot(token string) (*Bot, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("telegram bot token is empty")
	}

	api, err := tgbotapi.NewBotAPIWithClient(strings.TrimSpace(token), tgbotapi.APIEndpoint, httpclient.New(botRequestTimeout))
	if err != nil {
		return nil, fmt.Errorf("create telegram bot api: %w", err)
	}

	return &Bot{api: api}, nil
}

func (b *Bot) Listen(ctx context.Context, handlers Handlers) error {
	if b == nil || b.api == nil {
		return fmt.Errorf("telegram bot is not initialized")
	}

	updateCfg := tgbotapi.NewUpdate(0)
	updateCfg.Timeout = 30
	updates := b.api.GetUpdatesChan(updateCfg)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update := <-updates:
			if update.Message == nil || update.Message.From == nil {
				continue
			}

			if update.Message.IsCommand() && handlers.OnCommand != nil {
				err := handlers.OnCommand(ctx, CommandUpdate{
					ChatID:   update.Message.Chat.ID,
					UserID:   update.Message.From.ID,
					Username: update.Message.From.UserName,
					Command:  update.Message.Command(),
					Args:     update.Message.CommandArguments(),
				})
				if err != nil {
					return err
				}
				continue
			}

			text := strings.TrimSpace(update.Message.Text)
			if text != "" && handlers.OnText != nil {
				err := handlers.OnText(ctx, TextUpdate{
					ChatID:   update.Message.Chat.ID,
					UserID:   update.Message.From.ID,
					Username: update.Message.From.UserName,
					Text:     text,
				})
				if err != nil {
					return err
				}
			}
		}
	}
}

func (b *Bot) SendText(ctx context.Context, chatID int64, text string) error {
	if b == nil || b.api == nil {
		return fmt.Errorf("telegram bot is not initialized")
	}
	if chatID == 0 {
		return fmt.Errorf("chat id is required")
	}

	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.api.Send(msg)
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}

	_ = ctx
	return nil
}
