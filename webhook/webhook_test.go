package webhook_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oks-citadel/citadelbuy-sub007/webhook"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		name      string
		events    []string
		eventType string
		want      bool
	}{
		{"exact match", []string{"orders.created"}, "orders.created", true},
		{"no match", []string{"orders.created"}, "orders.updated", false},
		{"wildcard match", []string{"orders.*"}, "orders.created", true},
		{"wildcard deep match", []string{"orders.*"}, "orders.shipment.delayed", true},
		{"wildcard does not match family name", []string{"orders.*"}, "orders", false},
		{"wildcard does not match other family", []string{"orders.*"}, "payments.captured", false},
		{"wildcard does not match shared prefix", []string{"orders.*"}, "orders_v2.created", false},
		{"one of several", []string{"payments.captured", "orders.created"}, "orders.created", true},
		{"empty events", nil, "orders.created", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wh := webhook.Webhook{Events: tt.events}
			assert.Equal(t, tt.want, wh.Matches(tt.eventType))
		})
	}
}

func TestValidateURL(t *testing.T) {
	t.Run("https always accepted", func(t *testing.T) {
		require.NoError(t, webhook.ValidateURL("https://example.com/hook", true))
		require.NoError(t, webhook.ValidateURL("https://example.com/hook", false))
	})

	t.Run("http accepted only outside production", func(t *testing.T) {
		require.NoError(t, webhook.ValidateURL("http://localhost:9999/hook", false))
		require.Error(t, webhook.ValidateURL("http://localhost:9999/hook", true))
	})

	t.Run("rejects empty url", func(t *testing.T) {
		require.Error(t, webhook.ValidateURL("", false))
	})

	t.Run("rejects relative url", func(t *testing.T) {
		require.Error(t, webhook.ValidateURL("/hooks/incoming", false))
	})

	t.Run("rejects unsupported scheme", func(t *testing.T) {
		require.Error(t, webhook.ValidateURL("ftp://example.com/hook", false))
	})
}

func TestValidateEventType(t *testing.T) {
	require.NoError(t, webhook.ValidateEventType("orders.created"))
	require.NoError(t, webhook.ValidateEventType("orders.*"))
	require.NoError(t, webhook.ValidateEventType("users.password_reset"))
	require.Error(t, webhook.ValidateEventType(""))
	require.Error(t, webhook.ValidateEventType("orders..created"))
	require.Error(t, webhook.ValidateEventType("orders/created"))
}
