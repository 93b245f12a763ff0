package twilio

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"whatsapp-order-bot/internal/model"

	"github.com/twilio/twilio-go/twiml"
)

// ParseInbound reads the webhook form fields into an InboundMessage.
func ParseInbound(r *http.Request) (model.InboundMessage, error) {
	if err := r.ParseForm(); err != nil {
		return model.InboundMessage{}, fmt.Errorf("failed to parse webhook form: %w", err)
	}

	numMedia := 0
	if raw := strings.TrimSpace(r.PostFormValue("NumMedia")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return model.InboundMessage{}, fmt.Errorf("invalid NumMedia: %q", raw)
		}
		numMedia = n
	}

	return model.InboundMessage{
		From:             r.PostFormValue("From"),
		Body:             r.PostFormValue("Body"),
		NumMedia:         numMedia,
		MediaContentType: r.PostFormValue("MediaContentType0"),
		MediaURL:         r.PostFormValue("MediaUrl0"),
	}, nil
}

// RenderReply builds a TwiML messaging response holding exactly one message.
func RenderReply(message string) (string, error) {
	body, err := twiml.Messages([]twiml.Element{&twiml.MessagingMessage{Body: message}})
	if err != nil {
		return "", fmt.Errorf("failed to encode reply: %w", err)
	}
	return body, nil
}

// WriteReply renders message as TwiML with the given status code.
func WriteReply(w http.ResponseWriter, status int, message string) error {
	body, err := RenderReply(message)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.WriteHeader(status)
	_, err = io.WriteString(w, body)
	return err
}
