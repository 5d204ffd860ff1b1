package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-lava/app/factory"
	"github.com/vibast-solutions/ms-go-lava/app/service"
	"github.com/vibast-solutions/ms-go-lava/app/types"
)

type WebhookController struct {
	webhookService *service.WebhookService
	logger         logrus.FieldLogger
}

func NewWebhookController(webhookService *service.WebhookService) *WebhookController {
	return &WebhookController{
		webhookService: webhookService,
		logger:         factory.NewModuleLogger("lava-webhook-controller"),
	}
}

func (c *WebhookController) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &types.HealthResponse{Status: "ok"})
}

func (c *WebhookController) HandleLavaWebhook(ctx echo.Context) error {
	req, err := types.NewHandleLavaWebhookRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	_, err = c.webhookService.HandleInvoiceWebhook(ctx.Request().Context(), req)
	if err != nil {
		logger := factory.LoggerWithContext(c.logger, ctx)
		switch {
		case errors.Is(err, service.ErrWebhookDuplicate):
			return ctx.JSON(http.StatusOK, &types.MessageResponse{Message: "Webhook already processed"})
		case errors.Is(err, service.ErrCallbackRejected), errors.Is(err, service.ErrInvalidRequest):
			logger.WithError(err).Warn("Lava webhook rejected")
			return c.writeError(ctx, http.StatusBadRequest, "webhook rejected")
		case errors.Is(err, service.ErrWebhookMisconfigured):
			logger.WithError(err).Error("Lava webhook received without a configured secret")
			return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
		default:
			logger.WithError(err).Error("Handle lava webhook failed")
			return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusOK, &types.MessageResponse{Message: "Webhook processed"})
}

func (c *WebhookController) writeError(ctx echo.Context, statusCode int, message string) error {
	return ctx.JSON(statusCode, &types.ErrorResponse{Error: message})
}
