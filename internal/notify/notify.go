package notify

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type EmailRecipient struct {
	Email string
	Name  string
}

// Mailer sends transactional email. Implementations talk to an external
// delivery API; callers never depend on which one.
type Mailer interface {
	SendHTML(ctx context.Context, recipients []EmailRecipient, subject, html string) error
}

// Pusher delivers a push message to one device token.
type Pusher interface {
	Push(ctx context.Context, deviceToken, title, body string, link *string) error
}

// Dispatcher fans deliveries out in the background. Failures are logged
// and never surfaced: notification delivery is not atomic with the domain
// mutation that triggered it, and is not retried.
type Dispatcher struct {
	mailer Mailer
	pusher Pusher
	log    *zap.Logger
}

func NewDispatcher(mailer Mailer, pusher Pusher, log *zap.Logger) *Dispatcher {
	return &Dispatcher{mailer: mailer, pusher: pusher, log: log}
}

const dispatchTimeout = 30 * time.Second

func (d *Dispatcher) MailAsync(recipients []EmailRecipient, subject, html string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		if err := d.mailer.SendHTML(ctx, recipients, subject, html); err != nil {
			d.log.Error("send mail", zap.String("subject", subject), zap.Error(err))
		}
	}()
}

func (d *Dispatcher) PushAsync(deviceToken, title, body string, link *string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		if err := d.pusher.Push(ctx, deviceToken, title, body, link); err != nil {
			d.log.Error("send push", zap.String("title", title), zap.Error(err))
		}
	}()
}
