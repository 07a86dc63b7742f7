package catalog

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oks-citadel/citadelbuy-sub007/webhook"
)

/* Catalog is the known event type vocabulary, loaded from events.yaml
 * Provides in-memory lookup for fast access during subscription validation
 */

// Config represents the structure of events.yaml
type Config struct {
	Events []EventConfig `yaml:"events"`
}

// EventConfig represents a single event type in the YAML file
type EventConfig struct {
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
}

// Catalog holds the loaded event types
type Catalog struct {
	events map[string]EventConfig
}

// NewCatalog creates an empty event catalog
func NewCatalog() *Catalog {
	return &Catalog{
		events: make(map[string]EventConfig),
	}
}

// Load reads and parses the events.yaml file
func (c *Catalog) Load(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("reading events file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("parsing events YAML: %w", err)
	}

	for _, ec := range config.Events {
		if ec.Type == "" {
			return fmt.Errorf("event type cannot be empty")
		}
		if err := webhook.ValidateEventType(ec.Type); err != nil {
			return fmt.Errorf("invalid event type %q: %w", ec.Type, err)
		}
		c.events[ec.Type] = ec
	}

	return nil
}

/* Known reports whether an event type belongs to the catalog. Wildcard
 * subscriptions like "orders.*" are known when at least one catalog
 * entry falls under the prefix.
 */
func (c *Catalog) Known(eventType string) bool {
	if _, exists := c.events[eventType]; exists {
		return true
	}

	if prefix, ok := strings.CutSuffix(eventType, ".*"); ok && prefix != "" {
		for known := range c.events {
			if strings.HasPrefix(known, prefix+".") {
				return true
			}
		}
	}

	return false
}

// List returns all catalog entries sorted by type
func (c *Catalog) List() []EventConfig {
	events := make([]EventConfig, 0, len(c.events))
	for _, ec := range c.events {
		events = append(events, ec)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Type < events[j].Type })
	return events
}
