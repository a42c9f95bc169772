package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/northstackhq/funnelbot/internal/leads"
	"github.com/northstackhq/funnelbot/internal/profiles"
)

type fakeChatSender struct {
	sent    map[string]string
	failFor map[string]error
}

func newFakeChatSender() *fakeChatSender {
	return &fakeChatSender{sent: make(map[string]string), failFor: make(map[string]error)}
}

func (f *fakeChatSender) SendMessage(_ context.Context, chatID, text string) error {
	if err := f.failFor[chatID]; err != nil {
		return err
	}
	f.sent[chatID] = text
	return nil
}

func sampleLead() *leads.Lead {
	return &leads.Lead{
		ID:      7,
		Source:  "telegram_ai",
		Name:    "Alice",
		Company: "Acme Marketing",
		Service: "Website development",
		Budget:  "$2000",
		Contact: "+15551234567",
		Details: "Client: Alice\nService: Website development",
		Status:  leads.StatusNew,
	}
}

func TestNotifyCapturedLeadFansOut(t *testing.T) {
	sender := newFakeChatSender()
	svc := NewService([]string{"admin", "sales"}, sender, nil, nil, nil)

	profile := &profiles.Profile{
		ConversationID:  "tg:1001",
		ChannelUsername: "alice_b",
		Details:         "- we want more leads and sales\n- launch within 2 weeks",
	}
	err := svc.NotifyCapturedLead(context.Background(), sampleLead(), profile)
	require.NoError(t, err)
	require.Len(t, sender.sent, 2)

	card := sender.sent["admin"]
	assert.Contains(t, card, "New client card (#7)")
	assert.Contains(t, card, "Client: Alice")
	assert.Contains(t, card, "alice_b")
	assert.Contains(t, card, "tg:1001")
	assert.NotContains(t, card, "<b>", "cards are plain text")
}

func TestPartialFailureIsNotAnError(t *testing.T) {
	sender := newFakeChatSender()
	sender.failFor["admin"] = errors.New("blocked")
	svc := NewService([]string{"admin", "sales"}, sender, nil, nil, nil)

	err := svc.NotifyNewLead(context.Background(), sampleLead())
	assert.NoError(t, err, "one surviving delivery keeps the operation green")
	assert.Len(t, sender.sent, 1)
}

func TestAllFailuresSurface(t *testing.T) {
	sender := newFakeChatSender()
	sender.failFor["admin"] = errors.New("blocked")
	svc := NewService([]string{"admin"}, sender, nil, nil, nil)

	err := svc.NotifyNewLead(context.Background(), sampleLead())
	assert.ErrorIs(t, err, ErrAllDeliveriesFailed)
}

func TestNoDestinationsIsQuietSuccess(t *testing.T) {
	svc := NewService(nil, newFakeChatSender(), nil, nil, nil)
	assert.NoError(t, svc.NotifyNewLead(context.Background(), sampleLead()))
}

func TestEscalationCard(t *testing.T) {
	sender := newFakeChatSender()
	svc := NewService([]string{"admin"}, sender, nil, nil, nil)

	err := svc.NotifyEscalation(context.Background(), "tg:9", "I want to talk to a manager", "keyword")
	require.NoError(t, err)
	card := sender.sent["admin"]
	assert.Contains(t, card, "Reason: keyword")
	assert.Contains(t, card, "I want to talk to a manager")
}

func TestCardsClamped(t *testing.T) {
	lead := sampleLead()
	lead.Details = strings.Repeat("x", 5000)
	card := FormatNewLeadCard(lead)
	assert.LessOrEqual(t, len(card), maxCardLen)
}
