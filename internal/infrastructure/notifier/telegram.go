package notifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"reviewhunter/internal/domain/entity"
	"reviewhunter/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type TelegramBot struct {
	bot    *telego.Bot
	chatID int64
}

func NewTelegramBot(token string, chatID int64) (*TelegramBot, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return &TelegramBot{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// Run drains the leads channel and alerts on every lead received. The watcher
// decides what is worth sending; the bot just delivers.
func (b *TelegramBot) Run(ctx context.Context, leads <-chan entity.Lead) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case lead, ok := <-leads:
			if !ok {
				return nil
			}
			if err := b.SendLead(ctx, lead); err != nil {
				logger(ctx).Error("failed to send lead", "error", err)
			}
		}
	}
}

func (b *TelegramBot) SendLead(ctx context.Context, lead entity.Lead) error {
	rating := "—"
	if lead.Business.Rating != nil {
		rating = fmt.Sprintf("%.1f", *lead.Business.Rating)
	}

	text := fmt.Sprintf(
		"🔥 <b>HOT LEAD!</b>\n\n"+
			"🏢 <b>Name:</b> %s\n"+
			"⭐ <b>Rating:</b> %s (%d reviews)\n"+
			"💬 <b>Unanswered:</b> %d\n"+
			"📊 <b>Score:</b> %d (%s)\n",
		lead.Business.Name,
		rating,
		lead.Business.ReviewCount,
		lead.Business.UnansweredCount,
		lead.Score,
		lead.Tier,
	)

	if len(lead.Flags) > 0 {
		flags := make([]string, 0, len(lead.Flags))
		for _, flag := range lead.Flags {
			flags = append(flags, string(flag))
		}
		text += fmt.Sprintf("🚩 <b>Flags:</b> %s\n", strings.Join(flags, ", "))
	}

	if lead.Business.Phone != "" {
		text += fmt.Sprintf("📞 %s\n", lead.Business.Phone)
	}

	if lead.Business.MapsURL != "" {
		text += fmt.Sprintf("\n🔗 <a href=\"%s\">Open in Maps</a>", lead.Business.MapsURL)
	}

	msg := tu.Message(
		tu.ID(b.chatID),
		text,
	).WithParseMode(telego.ModeHTML)

	_, err := b.bot.SendMessage(ctx, msg)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

// SendText отправляет простое текстовое сообщение.
func (b *TelegramBot) SendText(ctx context.Context, text string) error {
	msg := tu.Message(tu.ID(b.chatID), text)

	_, err := b.bot.SendMessage(ctx, msg)
	return err
}
