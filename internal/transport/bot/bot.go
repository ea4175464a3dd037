package bot

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"reviewhunter/internal/config"
	"reviewhunter/internal/transport/bot/handler"
	"reviewhunter/internal/worker"
	"reviewhunter/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Bot представляет собой Telegram-бота
type Bot struct {
	bot        *telego.Bot
	botHandler *th.BotHandler

	handler *handler.Handler
}

// New создает новый экземпляр бота
func New(cfg config.Config,
	runner handler.HuntRunner,
	watcher *worker.LeadWatcher,
) (*Bot, error) {
	bot, err := telego.NewBot(cfg.Bot.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	// Получаем обновления через long polling
	updates, err := bot.UpdatesViaLongPolling(context.Background(), &telego.GetUpdatesParams{
		Timeout: 60,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get updates: %w", err)
	}

	botHandler, err := th.NewBotHandler(bot, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot handler: %w", err)
	}

	commandHandler := handler.New(runner, watcher)
	commandHandler.RegisterRoutes(botHandler, cfg.Bot.AdminID)

	return &Bot{
		bot:        bot,
		botHandler: botHandler,
		handler:    commandHandler,
	}, nil
}

// Run запускает бота
func (b *Bot) Run(ctx context.Context) error {
	go func() {
		if err := b.botHandler.Start(); err != nil {
			logger(ctx).Error("failed to start bot handler", "error", err)
		}
	}()

	<-ctx.Done()

	if err := b.botHandler.Stop(); err != nil {
		logger(ctx).Error("failed to stop bot handler", "error", err)
	}

	return ctx.Err()
}
