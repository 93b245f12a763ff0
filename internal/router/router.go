package router

import (
	"net/http"

	"whatsapp-order-bot/internal/handler"
	"whatsapp-order-bot/internal/middleware"

	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers served by the router.
type Handlers struct {
	Webhook    *handler.WebhookHandler
	Restaurant *handler.RestaurantHandler
	Orders     *handler.OrderHandler
	Stream     *handler.StreamHandler
}

// New creates a new HTTP router with all routes and middleware configured.
// The order listing routes require apiKey when it is set.
func New(h Handlers, apiKey string, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	mux.HandleFunc("POST /api/twilio/webhook", h.Webhook.Handle)

	mux.HandleFunc("GET /api/restaurant", h.Restaurant.Get)
	mux.HandleFunc("GET /api/menu/{id}", h.Restaurant.GetMenuItem)

	mux.HandleFunc("GET /api/orders/stream", h.Stream.Stream)

	protected := middleware.APIKeyAuth(apiKey, logger)
	mux.Handle("GET /api/orders", protected(http.HandlerFunc(h.Orders.List)))
	mux.Handle("GET /api/orders/{id}", protected(http.HandlerFunc(h.Orders.GetByID)))

	// Apply middleware in order: Recovery -> RequestID -> Logging -> CORS
	var handler http.Handler = mux
	handler = middleware.CORS(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recovery(logger)(handler)

	return handler
}
