package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"whatsapp-order-bot/internal/middleware"
	"whatsapp-order-bot/internal/model"
	"whatsapp-order-bot/internal/service"
	"whatsapp-order-bot/internal/twilio"

	"github.com/rs/zerolog"
)

// Reply texts sent back to the customer.
const (
	ReplyVoiceFailed = "Sorry, we couldn't process your voice message."
	ReplyNoItems     = `Sorry, we couldn't detect items in your order. Please send like "1 Parota, 2 Chicken Biryani".`
	ReplyFailure     = "Sorry, something went wrong while placing your order."
	untrustedBody    = "Invalid Twilio Request"
)

// WebhookHandler handles inbound WhatsApp messages delivered by Twilio.
type WebhookHandler struct {
	service service.OrderService
	auth    twilio.RequestAuthenticator
	logger  zerolog.Logger
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(service service.OrderService, auth twilio.RequestAuthenticator, logger zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{
		service: service,
		auth:    auth,
		logger:  logger.With().Str("handler", "webhook").Logger(),
	}
}

// Handle handles POST /api/twilio/webhook requests. Every trusted request gets exactly one TwiML reply.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With().Str("request_id", middleware.GetRequestID(r.Context())).Logger()

	if !h.auth.IsTrusted(r) {
		logger.Warn().Err(model.ErrUntrustedRequest).Str("remote_addr", r.RemoteAddr).Msg("rejected webhook request")
		http.Error(w, untrustedBody, http.StatusForbidden)
		return
	}

	msg, err := twilio.ParseInbound(r)
	if err != nil {
		logger.Warn().Err(err).Msg("malformed webhook request")
		h.reply(w, http.StatusBadRequest, ReplyFailure, logger)
		return
	}

	logger.Info().
		Str("from", msg.From).
		Bool("voice", msg.IsVoice()).
		Msg("incoming message")

	order, err := h.service.PlaceOrder(r.Context(), msg)
	switch {
	case err == nil:
		h.reply(w, http.StatusOK, confirmation(order), logger)
	case errors.Is(err, model.ErrTranscriptionFailed):
		h.reply(w, http.StatusOK, ReplyVoiceFailed, logger)
	case errors.Is(err, model.ErrNoItemsDetected):
		h.reply(w, http.StatusOK, ReplyNoItems, logger)
	default:
		logger.Error().Err(err).Str("from", msg.From).Msg("failed to place order")
		h.reply(w, http.StatusInternalServerError, ReplyFailure, logger)
	}
}

func (h *WebhookHandler) reply(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	if err := twilio.WriteReply(w, status, message); err != nil {
		logger.Error().Err(err).Msg("failed to write reply")
	}
}

// confirmation renders e.g. "Thanks! Your order has been placed: 2 x Parota. Total: ₹60".
func confirmation(order *model.Order) string {
	parts := make([]string, 0, len(order.Items))
	for _, line := range order.Items {
		parts = append(parts, fmt.Sprintf("%d x %s", line.Quantity, line.Name))
	}

	return fmt.Sprintf("Thanks! Your order has been placed: %s. Total: ₹%s",
		strings.Join(parts, ", "),
		strconv.FormatFloat(order.TotalPrice, 'f', -1, 64))
}
