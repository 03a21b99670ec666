package notify_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/advcompro/garage-dashboard/internal/config"
	"github.com/advcompro/garage-dashboard/internal/domain"
	"github.com/advcompro/garage-dashboard/internal/notify"
	"github.com/advcompro/garage-dashboard/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingSender struct {
	mu   sync.Mutex
	sent map[string]string
	err  error
}

func (s *recordingSender) Send(_ context.Context, to, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if s.sent == nil {
		s.sent = map[string]string{}
	}
	s.sent[to] = body
	return nil
}

func readyCustomer(checked bool) *domain.Customer {
	return &domain.Customer{
		ID:           1,
		Name:         domain.CustomerName{First: "Somchai", Last: "Jaidee"},
		Tel:          "+66812345678",
		LicensePlate: "1กข 1234",
		Brand:        "Toyota",
		Model:        "Camry",
		Cost:         decimal.NewFromInt(500),
		Checked:      checked,
	}
}

func TestRender(t *testing.T) {
	body := notify.Render("Hi {name}, your {car} ({plate}) is ready. Total {cost}.", readyCustomer(true))
	assert.Equal(t, "Hi Somchai Jaidee, your Toyota Camry (1กข 1234) is ready. Total 500.00.", body)
}

func TestNotifier_SendsOnlyWhenChecked(t *testing.T) {
	sender := &recordingSender{}
	n := notify.NewNotifier(sender, "{name}: {car} ready", zap.NewNop())

	n.Handle(store.Event{Kind: store.EventCustomerToggled, Customer: readyCustomer(false)})
	n.Handle(store.Event{Kind: store.EventCustomerAdded, Customer: readyCustomer(true)})
	n.Close()
	assert.Empty(t, sender.sent)

	n = notify.NewNotifier(sender, "{name}: {car} ready", zap.NewNop())
	n.Handle(store.Event{Kind: store.EventCustomerToggled, Customer: readyCustomer(true)})
	n.Close()
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Somchai Jaidee: Toyota Camry ready", sender.sent["+66812345678"])
}

func TestNotifier_SkipsMissingPhoneAndAfterClose(t *testing.T) {
	sender := &recordingSender{}
	n := notify.NewNotifier(sender, "ready", zap.NewNop())

	c := readyCustomer(true)
	c.Tel = ""
	n.Handle(store.Event{Kind: store.EventCustomerToggled, Customer: c})
	n.Close()

	n.Handle(store.Event{Kind: store.EventCustomerToggled, Customer: readyCustomer(true)})
	assert.Empty(t, sender.sent)
}

func TestNotifier_SendFailureIsLogged(t *testing.T) {
	sender := &recordingSender{err: errors.New("twilio down")}
	n := notify.NewNotifier(sender, "ready", zap.NewNop())
	n.Handle(store.Event{Kind: store.EventCustomerToggled, Customer: readyCustomer(true)})
	n.Close()
	assert.Empty(t, sender.sent)
}

func TestNewTwilioSender_RequiresCredentials(t *testing.T) {
	_, err := notify.NewTwilioSender(&config.NotifyConfig{})
	assert.Error(t, err)

	_, err = notify.NewTwilioSender(&config.NotifyConfig{TwilioAccountSid: "AC123", TwilioAuthToken: "tok"})
	assert.Error(t, err, "sender number required")

	s, err := notify.NewTwilioSender(&config.NotifyConfig{TwilioAccountSid: "AC123", TwilioAuthToken: "tok", From: "+15005550006"})
	require.NoError(t, err)
	assert.NotNil(t, s)
}
