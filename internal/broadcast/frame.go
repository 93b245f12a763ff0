package broadcast

import (
	"encoding/json"
	"fmt"

	"whatsapp-order-bot/internal/model"
)

// Heartbeat is an event-stream comment frame; clients ignore it.
var Heartbeat = []byte(": ping\n\n")

// Frame encodes order as a single text/event-stream data frame.
func Frame(order model.Order) ([]byte, error) {
	payload, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order %d: %w", order.ID, err)
	}

	frame := make([]byte, 0, len(payload)+8)
	frame = append(frame, "data: "...)
	frame = append(frame, payload...)
	frame = append(frame, "\n\n"...)
	return frame, nil
}
