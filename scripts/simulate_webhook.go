//go:build ignore

package main

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"
)

// simulate_webhook posts a fake Twilio WhatsApp event to a running bot and
// prints the TwiML reply. With -token set the request is signed the way
// Twilio signs it, for TWILIO_VALIDATE_SIGNATURE=true.
//
//	go run scripts/simulate_webhook.go -body "2 Parota, 1 Chicken Biryani"
//	go run scripts/simulate_webhook.go -media https://example.com/voice.ogg -type audio/ogg
func main() {
	target := flag.String("url", "http://localhost:5000/api/twilio/webhook", "webhook URL")
	from := flag.String("from", "whatsapp:+15550001", "sender")
	body := flag.String("body", "2 Parota, 1 Chicken Biryani", "message text")
	media := flag.String("media", "", "media URL for a voice message")
	contentType := flag.String("type", "audio/ogg", "media content type")
	token := flag.String("token", os.Getenv("TWILIO_AUTH_TOKEN"), "auth token used to sign the request")
	flag.Parse()

	form := url.Values{
		"From":     {*from},
		"Body":     {*body},
		"NumMedia": {"0"},
	}
	if *media != "" {
		form.Set("NumMedia", "1")
		form.Set("MediaUrl0", *media)
		form.Set("MediaContentType0", *contentType)
	}

	req, err := http.NewRequest(http.MethodPost, *target, strings.NewReader(form.Encode()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if *token != "" {
		req.Header.Set("X-Twilio-Signature", sign(*token, *target, form))
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	reply, _ := io.ReadAll(resp.Body)
	fmt.Printf("%s\n%s\n", resp.Status, reply)
}

// sign computes base64(HMAC-SHA1(token, url + sorted key/value pairs)).
func sign(token, fullURL string, form url.Values) string {
	keys := make([]string, 0, len(form))
	for key := range form {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(fullURL)
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(form.Get(key))
	}

	mac := hmac.New(sha1.New, []byte(token))
	mac.Write([]byte(b.String()))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
