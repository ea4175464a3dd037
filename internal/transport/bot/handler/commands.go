package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"reviewhunter/internal/domain/entity"
	"reviewhunter/internal/domain/service/hunt"
	"reviewhunter/internal/transport/bot/view"
)

func (h *Handler) OnStart(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, view.StartMessage)
}

func (h *Handler) OnStatus(ctx *th.Context, msg telego.Message) error {
	watcherStatus := "🔴 остановлен"
	if h.watcher != nil && h.watcher.IsRunning() {
		watcherStatus = "🟢 работает"
	}

	text := fmt.Sprintf(`📊 <b>Статус системы</b>

	👀 <b>Вотчер:</b> %s
`,
		watcherStatus,
	)

	return h.sendHTML(ctx, msg.Chat.ID, text)
}

// OnHunt runs a synchronous hunt from a "/hunt industry@city" command and
// replies with the top leads.
func (h *Handler) OnHunt(ctx *th.Context, msg telego.Message) error {
	parts := strings.Fields(msg.Text)
	if len(parts) < 2 {
		return h.send(ctx, msg.Chat.ID, view.HuntMissingArgument)
	}

	industry, city, ok := strings.Cut(strings.Join(parts[1:], " "), "@")
	if !ok || industry == "" || city == "" {
		return h.send(ctx, msg.Chat.ID, view.HuntMissingArgument)
	}

	result, err := h.runner.Hunt(ctx, hunt.Query{
		Industry: strings.TrimSpace(industry),
		City:     strings.TrimSpace(city),
	})
	if err != nil {
		return h.send(ctx, msg.Chat.ID, fmt.Sprintf(view.HuntFailed, err))
	}

	if len(result.Leads) == 0 {
		return h.send(ctx, msg.Chat.ID, view.HuntNoLeads)
	}

	return h.sendHTML(ctx, msg.Chat.ID, formatLeads(result))
}

func (h *Handler) OnStartWatch(ctx *th.Context, msg telego.Message) error {
	if h.watcher == nil {
		return h.send(ctx, msg.Chat.ID, "Вотчер не настроен")
	}

	if err := h.startWatch(ctx); err != nil {
		return h.send(ctx, msg.Chat.ID, view.WatchAlreadyRunning)
	}

	return h.send(ctx, msg.Chat.ID, view.WatchStarted)
}

// startWatch detaches the watcher from the update context: telego cancels it
// as soon as the command handler returns, and the watcher must outlive it.
func (h *Handler) startWatch(ctx context.Context) error {
	return h.watcher.Start(context.WithoutCancel(ctx))
}

func (h *Handler) OnStopWatch(ctx *th.Context, msg telego.Message) error {
	if h.watcher == nil {
		return h.send(ctx, msg.Chat.ID, "Вотчер не настроен")
	}

	h.watcher.Stop()

	return h.send(ctx, msg.Chat.ID, view.WatchStopped)
}

const topLeadsShown = 5

func formatLeads(result hunt.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🎯 <b>Найдено %d лидов</b> (🔥 %d hot, partial %d)\n\n",
		len(result.Leads), result.Summary.HotLeads, result.PartialCount)

	shown := result.Leads
	if len(shown) > topLeadsShown {
		shown = shown[:topLeadsShown]
	}

	for i, lead := range shown {
		rating := "—"
		if lead.Business.Rating != nil {
			rating = fmt.Sprintf("%.1f", *lead.Business.Rating)
		}

		marker := ""
		if lead.Tier == entity.TierHot {
			marker = " 🔥"
		}

		fmt.Fprintf(&b, "%d. <b>%s</b>%s\n   score %d (%s), ⭐ %s, 💬 %d/%d без ответа\n",
			i+1,
			lead.Business.Name,
			marker,
			lead.Score,
			lead.Tier,
			rating,
			lead.Business.UnansweredCount,
			lead.Business.ReviewCount,
		)
	}

	return b.String()
}

func (h *Handler) send(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: chatID},
		Text:   text,
	})
	return err
}

func (h *Handler) sendHTML(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID:    telego.ChatID{ID: chatID},
		Text:      text,
		ParseMode: telego.ModeHTML,
	})
	return err
}
