// Package twilio adapts the Twilio messaging webhook: request
// authentication, inbound form parsing and TwiML replies.
package twilio

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/twilio/twilio-go/client"
)

// SignatureHeader carries the Twilio request signature.
const SignatureHeader = "X-Twilio-Signature"

// RequestAuthenticator decides whether a webhook request came from a trusted source.
type RequestAuthenticator interface {
	IsTrusted(r *http.Request) bool
}

// AllowAll trusts every request. It matches a deployment with signature checks turned off.
type AllowAll struct{}

// IsTrusted always returns true.
func (AllowAll) IsTrusted(*http.Request) bool {
	return true
}

// signatureAuthenticator verifies X-Twilio-Signature with the account auth token.
type signatureAuthenticator struct {
	validator  client.RequestValidator
	webhookURL string
	logger     zerolog.Logger
}

// NewSignatureAuthenticator creates an authenticator that checks Twilio
// request signatures. webhookURL is the public URL Twilio posts to; when
// empty it is rebuilt from the request.
func NewSignatureAuthenticator(authToken, webhookURL string, logger zerolog.Logger) RequestAuthenticator {
	return &signatureAuthenticator{
		validator:  client.NewRequestValidator(authToken),
		webhookURL: webhookURL,
		logger:     logger.With().Str("component", "twilio-authenticator").Logger(),
	}
}

// IsTrusted parses the form and validates the signature over URL and parameters.
func (a *signatureAuthenticator) IsTrusted(r *http.Request) bool {
	signature := r.Header.Get(SignatureHeader)
	if signature == "" {
		a.logger.Warn().Str("path", r.URL.Path).Msg("missing Twilio signature")
		return false
	}

	if err := r.ParseForm(); err != nil {
		a.logger.Warn().Err(err).Msg("failed to parse webhook form")
		return false
	}

	params := make(map[string]string, len(r.PostForm))
	for key, values := range r.PostForm {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	url := a.webhookURL
	if url == "" {
		url = RequestURL(r)
	}

	if !a.validator.Validate(url, params, signature) {
		a.logger.Warn().Str("url", url).Msg("invalid Twilio signature")
		return false
	}

	return true
}

// RequestURL reconstructs the absolute URL of r, honouring X-Forwarded-Proto.
func RequestURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}
