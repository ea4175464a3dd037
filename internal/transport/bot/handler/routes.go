package handler

import (
	th "github.com/mymmrac/telego/telegohandler"

	"reviewhunter/internal/transport/bot/middleware"
)

func (h *Handler) RegisterRoutes(bh *th.BotHandler, adminID int64) {
	// Все команды управления доступны только администратору
	adminGroup := bh.Group(th.AnyMessage())
	adminGroup.Use(middleware.AdminOnly(adminID))

	adminGroup.HandleMessage(h.OnStart, th.CommandEqual("start"))
	adminGroup.HandleMessage(h.OnStatus, th.CommandEqual("status"))
	adminGroup.HandleMessage(h.OnHunt, th.CommandEqual("hunt"))
	adminGroup.HandleMessage(h.OnStartWatch, th.CommandEqual("startwatch"))
	adminGroup.HandleMessage(h.OnStopWatch, th.CommandEqual("stopwatch"))
}
