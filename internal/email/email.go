// Package email dispatches the magic-link notification. The external
// provider is Resend; when no API key is configured the console sender takes
// its place so the request flow still completes in local development.
package email

import (
	"context"
	"log"
)

type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ConsoleSender writes the message to the server log instead of sending it.
type ConsoleSender struct{}

func (ConsoleSender) Send(_ context.Context, msg Message) error {
	log.Printf("MAGIC LINK EMAIL (console mode, no RESEND_API_KEY)\nTo: %s\nSubject: %s\n%s", msg.To, msg.Subject, msg.Text)
	return nil
}
