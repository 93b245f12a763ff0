package model

import (
	"strings"
	"time"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

// StatusReceived is the state of every newly placed order.
const StatusReceived OrderStatus = "Received"

// Order represents an order placed over WhatsApp.
type Order struct {
	ID         int64       `json:"id" db:"id"`
	From       string      `json:"from" db:"sender"`
	Items      []OrderLine `json:"items"`
	TotalPrice float64     `json:"totalPrice" db:"total_price"`
	Status     OrderStatus `json:"status" db:"status"`
	CreatedAt  time.Time   `json:"createdAt" db:"created_at"`
}

// OrderLine represents one matched menu item in an order.
type OrderLine struct {
	ItemID   int     `json:"id" db:"item_id"`
	Name     string  `json:"name" db:"name"`
	Price    float64 `json:"price" db:"price"`
	Quantity int     `json:"quantity" db:"quantity"`
	Total    float64 `json:"total" db:"total"`
}

// NewOrderLine builds a line for quantity units of item.
func NewOrderLine(item MenuItem, quantity int) OrderLine {
	return OrderLine{
		ItemID:   item.ID,
		Name:     item.Name,
		Price:    item.Price,
		Quantity: quantity,
		Total:    item.Price * float64(quantity),
	}
}

// SumLines returns the total price of lines.
func SumLines(lines []OrderLine) float64 {
	var total float64
	for _, line := range lines {
		total += line.Total
	}
	return total
}

// InboundMessage is a webhook event received from the messaging platform.
type InboundMessage struct {
	From             string
	Body             string
	NumMedia         int
	MediaContentType string
	MediaURL         string
}

// IsVoice reports whether the message carries an audio attachment.
func (m InboundMessage) IsVoice() bool {
	return m.NumMedia > 0 && strings.HasPrefix(m.MediaContentType, "audio")
}
