package controller

import (
	"career_bot_backend/internal/bot"
	"career_bot_backend/internal/util"
	"career_bot_backend/pkg/telegram"
	"net/http"

	"github.com/gin-gonic/gin"
)

type WebhookController struct {
	Dispatcher *bot.Dispatcher
	Secret     string
}

func NewWebhookController(dispatcher *bot.Dispatcher, secret string) *WebhookController {
	return &WebhookController{Dispatcher: dispatcher, Secret: secret}
}

// HandleUpdate receives one Telegram update pushed to the webhook.
// @Summary Telegram webhook
// @Tags telegram
// @Accept json
// @Success 200
// @Router /telegram/webhook [post]
func (c *WebhookController) HandleUpdate(ctx *gin.Context) {
	if c.Secret != "" && ctx.GetHeader("X-Telegram-Bot-Api-Secret-Token") != c.Secret {
		util.Unauthorized(ctx)
		return
	}

	var update telegram.Update
	if err := ctx.ShouldBindJSON(&update); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	c.Dispatcher.HandleUpdate(ctx.Request.Context(), update)
	ctx.Status(http.StatusOK)
}
