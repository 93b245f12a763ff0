package service

import (
	"context"
	"fmt"
	"time"

	"whatsapp-order-bot/internal/broadcast"
	"whatsapp-order-bot/internal/model"
	"whatsapp-order-bot/internal/repository"
	"whatsapp-order-bot/internal/transcriber"

	"github.com/rs/zerolog"
)

// eventTimeout bounds a single order event publication.
const eventTimeout = 5 * time.Second

// orderService implements OrderService.
type orderService struct {
	repo        repository.OrderRepository
	restaurant  *model.Restaurant
	extractor   Extractor
	transcriber transcriber.Transcriber
	broadcaster Broadcaster
	events      EventPublisher
	logger      zerolog.Logger
}

// NewOrderService creates a new order service. events may be nil.
func NewOrderService(
	repo repository.OrderRepository,
	restaurant *model.Restaurant,
	extractor Extractor,
	transcriber transcriber.Transcriber,
	broadcaster Broadcaster,
	events EventPublisher,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		repo:        repo,
		restaurant:  restaurant,
		extractor:   extractor,
		transcriber: transcriber,
		broadcaster: broadcaster,
		events:      events,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// PlaceOrder runs the pipeline: transcribe (voice only), extract, store, broadcast.
// Nothing is stored or broadcast unless extraction found at least one line.
func (s *orderService) PlaceOrder(ctx context.Context, msg model.InboundMessage) (*model.Order, error) {
	text := msg.Body

	if msg.IsVoice() {
		s.logger.Info().Str("from", msg.From).Msg("voice message detected")

		if s.transcriber == nil {
			return nil, fmt.Errorf("%w: transcription is not configured", model.ErrTranscriptionFailed)
		}

		transcribed, err := s.transcriber.Transcribe(ctx, msg.MediaURL)
		if err != nil {
			s.logger.Warn().Err(err).Str("from", msg.From).Msg("voice message could not be transcribed")
			return nil, err
		}
		text = transcribed
	}

	lines := s.extractor.Extract(text, s.restaurant.Menu)
	if len(lines) == 0 {
		s.logger.Info().Str("from", msg.From).Msg("no menu items detected")
		return nil, model.ErrNoItemsDetected
	}

	order, err := s.repo.Append(ctx, msg.From, lines)
	if err != nil {
		s.logger.Error().Err(err).Str("from", msg.From).Msg("failed to store order")
		return nil, fmt.Errorf("failed to store order: %w", err)
	}

	s.broadcast(*order)
	s.publishEvent(ctx, *order)

	s.logger.Info().
		Int64("order_id", order.ID).
		Str("from", order.From).
		Int("line_count", len(order.Items)).
		Float64("total_price", order.TotalPrice).
		Msg("order placed successfully")

	return order, nil
}

// broadcast fans the order out. Per-subscriber outcomes are logged only.
func (s *orderService) broadcast(order model.Order) {
	if s.broadcaster == nil {
		return
	}

	deliveries := s.broadcaster.Publish(order)

	dropped := 0
	for _, d := range deliveries {
		if d.Outcome != broadcast.Delivered {
			dropped++
		}
	}

	s.logger.Debug().
		Int64("order_id", order.ID).
		Int("subscribers", len(deliveries)).
		Int("dropped", dropped).
		Msg("order broadcast")
}

// publishEvent sends the order event in the background so the reply never waits on the broker.
func (s *orderService) publishEvent(ctx context.Context, order model.Order) {
	if s.events == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventTimeout)
	go func() {
		defer cancel()
		if err := s.events.PublishOrderCreated(ctx, order); err != nil {
			s.logger.Warn().Err(err).Int64("order_id", order.ID).Msg("failed to publish order event")
		}
	}()
}

// GetByID retrieves an order by its ID.
func (s *orderService) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("order_id", id).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}
	return order, nil
}

// List returns all orders.
func (s *orderService) List(ctx context.Context) ([]model.Order, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}
