package botapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/romatertia749-eng/StudNet/internal/config"
	tginfra "github.com/romatertia749-eng/StudNet/internal/infra/telegram"
	pgrepo "github.com/romatertia749-eng/StudNet/internal/repo/postgres"
	matchessvc "github.com/romatertia749-eng/StudNet/internal/services/matches"
)

const (
	startInstruction    = "Привет! Открой Mini App, заполни анкету и начинай знакомиться."
	fallbackProfileName = "кто-то из StudNet"
)

type App struct {
	cfg            config.Config
	logger         *zap.Logger
	postgres       *pgxpool.Pool
	bot            *tginfra.Bot
	matchesService *matchessvc.Service
	profileRepo    *pgrepo.ProfileRepo
}

func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	pool, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("init postgres for bot app: %w", err)
	}

	matchRepo := pgrepo.NewMatchRepo(pool)
	profileRepo := pgrepo.NewProfileRepo(pool)
	matchesService := matchessvc.NewService(matchRepo, profileRepo)

	var bot *tginfra.Bot
	if strings.TrimSpace(cfg.Bot.Token) != "" {
		bot, err = tginfra.NewBot(cfg.Bot.Token)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("init telegram bot: %w", err)
		}
	} else {
		logger.Warn("BOT_TOKEN is empty, match notifications disabled")
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		postgres:       pool,
		bot:            bot,
		matchesService: matchesService,
		profileRepo:    profileRepo,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("bot app started")

	if a.bot == nil {
		<-ctx.Done()
		a.logger.Info("bot app stopped")
		return nil
	}

	errCh := make(chan error, 2)
	go func() {
		errCh <- a.runNotifyLoop(ctx)
	}()
	go func() {
		errCh <- a.bot.Listen(ctx, tginfra.Handlers{
			OnCommand: a.handleCommand,
		})
	}()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("bot app stopped")
			return nil
		case err := <-errCh:
			if err == nil || errors.Is(err, context.Canceled) {
				continue
			}
			return err
		}
	}
}

func (a *App) runNotifyLoop(ctx context.Context) error {
	interval := a.cfg.Bot.NotifyInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}

	if err := a.notifyPending(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := a.notifyPending(ctx); err != nil {
				return err
			}
		}
	}
}

// notifyPending delivers one batch of unsent match notifications. A failed
// send is left unmarked so the next tick retries it.
func (a *App) notifyPending(ctx context.Context) error {
	batch := a.cfg.Bot.NotifyBatchSize
	if batch <= 0 {
		batch = 50
	}

	pending, err := a.matchesService.ListPendingNotifications(ctx, batch)
	if err != nil {
		return fmt.Errorf("list pending match notifications: %w", err)
	}

	for _, item := range pending {
		if err := ctx.Err(); err != nil {
			return nil
		}

		text := a.matchMessage(ctx, item.OtherUserID)
		if err := a.bot.SendText(ctx, item.UserID, text); err != nil {
			a.logger.Warn("send match notification failed",
				zap.Error(err),
				zap.Int64("match_id", item.MatchID),
				zap.Int64("user_id", item.UserID),
			)
			continue
		}

		if err := a.matchesService.MarkNotified(ctx, item.MatchID, item.UserID); err != nil {
			a.logger.Warn("mark match notified failed",
				zap.Error(err),
				zap.Int64("match_id", item.MatchID),
				zap.Int64("user_id", item.UserID),
			)
		}
	}

	return nil
}

func (a *App) matchMessage(ctx context.Context, otherUserID int64) string {
	name := fallbackProfileName
	if profile, err := a.profileRepo.GetByUserID(ctx, otherUserID); err == nil {
		if trimmed := strings.TrimSpace(profile.Name); trimmed != "" {
			name = trimmed
		}
	}
	return fmt.Sprintf("У тебя новый мэтч: %s! Открой Mini App, чтобы продолжить общение.", name)
}

func (a *App) handleCommand(ctx context.Context, update tginfra.CommandUpdate) error {
	switch strings.ToLower(strings.TrimSpace(update.Command)) {
	case "start":
		return a.bot.SendText(ctx, update.ChatID, startInstruction)
	default:
		return nil
	}
}

func (a *App) Close() {
	if a.postgres != nil {
		a.postgres.Close()
	}
}
