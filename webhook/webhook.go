package webhook

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

/* Webhook represents a registered subscription: an endpoint plus a signing
 * secret and the set of event types it wants to receive.
 * Uses value semantics as it represents data, not behavior
 */
type Webhook struct {
	ID          string
	URL         string
	Description string
	Secret      string // whsec_-prefixed, never exposed after creation/rotation
	Events      []string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// eventTypePattern validates event types: hierarchical, full-stop delimited, [a-zA-Z0-9_.]
var eventTypePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+(\.[a-zA-Z0-9_]+)*$`)

// Matches reports whether this subscription covers the given event type.
// Supports exact matching and wildcard suffixes: "orders.*" matches
// "orders.created" and "orders.shipped.express", but not "orders" itself.
func (w Webhook) Matches(eventType string) bool {
	for _, subscribed := range w.Events {
		if subscribed == eventType {
			return true
		}
		if prefix, ok := strings.CutSuffix(subscribed, ".*"); ok && prefix != "" {
			if strings.HasPrefix(eventType, prefix+".") {
				return true
			}
		}
	}
	return false
}

// ValidateURL checks that a target URL is syntactically valid. When
// requireHTTPS is set (production) only https endpoints are accepted.
func ValidateURL(raw string, requireHTTPS bool) error {
	if raw == "" {
		return fmt.Errorf("url is required")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parsing url: %w", err)
	}
	if u.Host == "" {
		return fmt.Errorf("url must be absolute: %s", raw)
	}

	switch u.Scheme {
	case "https":
		return nil
	case "http":
		if requireHTTPS {
			return fmt.Errorf("url must use https: %s", raw)
		}
		return nil
	default:
		return fmt.Errorf("unsupported url scheme: %s", u.Scheme)
	}
}

// ValidateEventType validates an event type format, allowing a wildcard suffix
func ValidateEventType(eventType string) error {
	if eventType == "" {
		return fmt.Errorf("event type cannot be empty")
	}

	if prefix, ok := strings.CutSuffix(eventType, ".*"); ok {
		eventType = prefix
	}

	if !eventTypePattern.MatchString(eventType) {
		return fmt.Errorf("event type must be hierarchical and contain only [a-zA-Z0-9_.]: %s", eventType)
	}

	return nil
}
