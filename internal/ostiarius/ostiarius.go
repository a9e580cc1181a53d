// Package ostiarius wires the bot, the review engine, the expiry sweeper and the status API
// into one process.
package ostiarius

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-telegram/bot"
	"golang.org/x/sync/errgroup"

	"github.com/core-coin/ostiarius/internal/access"
	chatbot "github.com/core-coin/ostiarius/internal/bot"
	"github.com/core-coin/ostiarius/internal/channel"
	"github.com/core-coin/ostiarius/internal/config"
	"github.com/core-coin/ostiarius/internal/http_api"
	"github.com/core-coin/ostiarius/internal/ledger"
	"github.com/core-coin/ostiarius/internal/models"
	"github.com/core-coin/ostiarius/internal/notificator"
	"github.com/core-coin/ostiarius/internal/payments"
	"github.com/core-coin/ostiarius/internal/repository"
	"github.com/core-coin/ostiarius/internal/review"
	"github.com/core-coin/ostiarius/internal/settings"
	"github.com/core-coin/ostiarius/internal/sweeper"
	"github.com/core-coin/ostiarius/pkg/logger"
)

// Ostiarius is the process root. It owns every long-lived component.
type Ostiarius struct {
	logger *logger.Logger
	config *config.Config

	db       *repository.GormDB
	bot      *bot.Bot
	access   *access.Service
	settings *settings.Service
	ledger   *ledger.Ledger
	sweeper  *sweeper.Sweeper
	api      models.APIServer
	closers  []io.Closer
}

// New connects to the database and the Bot API and builds every component.
// An invalid bot token fails here.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Ostiarius, error) {
	db, err := repository.Open(repository.Options{
		Driver:           cfg.DatabaseDriver,
		Path:             cfg.DatabasePath,
		PostgresUser:     cfg.PostgresUser,
		PostgresPassword: cfg.PostgresPassword,
		PostgresHost:     cfg.PostgresHost,
		PostgresPort:     cfg.PostgresPort,
		PostgresDB:       cfg.PostgresDB,
	}, log.Named("repository"))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	o := &Ostiarius{logger: log, config: cfg, db: db, closers: []io.Closer{db}}

	var states chatbot.StateStore = chatbot.NewMemoryStates()
	if cfg.RedisAddr != "" {
		redisStates, err := chatbot.OpenRedisStates(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			o.close()
			return nil, err
		}
		states = redisStates
		o.closers = append(o.closers, redisStates)
	}

	// Handlers run only after polling starts, so their services are bound once the
	// client they depend on exists.
	handler := chatbot.NewHandler(chatbot.Services{}, log.Named("bot"), nil)
	b, err := bot.New(cfg.TelegramBotToken, handler.Options()...)
	if err != nil {
		o.close()
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	o.bot = b

	now := time.Now
	o.ledger = ledger.New(now)
	o.access = access.NewService(db, cfg.PrimaryAdminID, log.Named("access"))
	o.settings = settings.NewService(db, log.Named("settings"))
	membership := channel.NewTelegram(b, cfg.ChannelID, log.Named("channel"))
	notif := notificator.NewNotificator(log.Named("notificator"), notificator.NewTelegramMessenger(b))
	engine := review.NewEngine(db, o.ledger, membership, notif, log.Named("review"), review.Config{
		SubscriptionDays: cfg.SubscriptionDays,
		InviteLink:       cfg.InviteLink,
	}, now)
	o.sweeper = sweeper.New(db, o.ledger, membership, notif, log.Named("sweeper"), cfg.SweepInterval(), now)

	handler.Services = chatbot.Services{
		Repo:        db,
		Access:      o.access,
		Settings:    o.settings,
		Queue:       payments.NewQueue(db, log.Named("payments")),
		Engine:      engine,
		Ledger:      o.ledger,
		Notificator: notif,
		States:      states,
	}

	if cfg.APIPort > 0 {
		o.api = http_api.NewHTTPServer(o, cfg.APIPort, log.Named("api"))
	}
	return o, nil
}

// Start seeds settings and the primary admin, then runs bot polling, the expiry sweeper and
// the status API until ctx is done or one of them fails.
func (o *Ostiarius) Start(ctx context.Context) error {
	defer o.close()

	if err := o.settings.Seed(ctx); err != nil {
		return fmt.Errorf("failed to seed settings: %w", err)
	}
	if err := o.access.Bootstrap(ctx); err != nil {
		return fmt.Errorf("failed to bootstrap admins: %w", err)
	}
	if _, err := o.bot.DeleteWebhook(ctx, &bot.DeleteWebhookParams{DropPendingUpdates: true}); err != nil {
		return fmt.Errorf("failed to drop pending updates: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		o.logger.Info("Starting bot polling")
		o.bot.Start(gctx)
		o.logger.Info("Bot polling stopped")
		return nil
	})
	g.Go(func() error {
		return o.sweeper.Run(gctx)
	})
	if o.api != nil {
		g.Go(o.api.Start)
		g.Go(func() error {
			<-gctx.Done()
			return o.api.Shutdown()
		})
	}
	return g.Wait()
}

// SubscriptionStatus returns the ledger view for a Telegram user.
func (o *Ostiarius) SubscriptionStatus(ctx context.Context, telegramID int64) (*models.SubscriptionStatus, error) {
	return o.ledger.Status(ctx, o.db, telegramID)
}

func (o *Ostiarius) close() {
	for i := len(o.closers) - 1; i >= 0; i-- {
		if err := o.closers[i].Close(); err != nil {
			o.logger.Warn("Failed to close resource", "error", err)
		}
	}
	o.closers = nil
}
