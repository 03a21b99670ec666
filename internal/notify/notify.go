// Package notify texts customers when their car is marked ready.
package notify

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/advcompro/garage-dashboard/internal/config"
	"github.com/advcompro/garage-dashboard/internal/domain"
	"github.com/advcompro/garage-dashboard/internal/store"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

const sendTimeout = 15 * time.Second

// Sender delivers one text message
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

// TwilioSender sends SMS through the Twilio REST API
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSender(cfg *config.NotifyConfig) (*TwilioSender, error) {
	if cfg.TwilioAccountSid == "" || cfg.TwilioAuthToken == "" {
		return nil, fmt.Errorf("twilio credentials are required for notifications")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("notify.from is required for notifications")
	}
	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSid,
			Password: cfg.TwilioAuthToken,
		}),
		from: cfg.From,
	}, nil
}

// Send ignores ctx; the Twilio client has no context support
func (s *TwilioSender) Send(_ context.Context, to, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("failed to send sms: %w", err)
	}
	return nil
}

// Notifier listens to store events and texts the owner when a car is checked.
// Messages are sent in the background; Close waits for them.
type Notifier struct {
	sender   Sender
	template string
	logger   *zap.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewNotifier(sender Sender, template string, logger *zap.Logger) *Notifier {
	return &Notifier{sender: sender, template: template, logger: logger}
}

// Handle is a store subscriber
func (n *Notifier) Handle(ev store.Event) {
	if ev.Kind != store.EventCustomerToggled || ev.Customer == nil || !ev.Customer.Checked {
		return
	}
	c := *ev.Customer
	if c.Tel == "" {
		n.logger.Debug("Customer has no phone number, skipping notification", zap.Int64("customer_id", c.ID))
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.send(c)
	}()
}

func (n *Notifier) send(c domain.Customer) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	body := Render(n.template, &c)
	if err := n.sender.Send(ctx, c.Tel, body); err != nil {
		n.logger.Warn("Failed to send ready notification",
			zap.Int64("customer_id", c.ID),
			zap.Error(err),
		)
		return
	}
	n.logger.Info("Ready notification sent", zap.Int64("customer_id", c.ID))
}

// Close stops accepting events and waits for in-flight sends
func (n *Notifier) Close() {
	n.mu.Lock()
	n.closed = true
	n.mu.Unlock()
	n.wg.Wait()
}

// Render fills {name}, {car}, {plate}, {cost} and {mechanic} in template
func Render(template string, c *domain.Customer) string {
	return strings.NewReplacer(
		"{name}", c.Name.Display(),
		"{car}", c.Car(),
		"{plate}", c.LicensePlate,
		"{cost}", c.Cost.StringFixed(2),
		"{mechanic}", c.Mechanic,
	).Replace(template)
}
