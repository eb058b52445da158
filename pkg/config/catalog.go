package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Tier is one categorical dimension value with its default flat unit price.
type Tier struct {
	Name       string `yaml:"name"`
	PriceCents int64  `yaml:"price_cents"`
}

// Catalog describes what the demo sets up on the billing platform.
type Catalog struct {
	EventType       string `yaml:"event_type"`
	MetricName      string `yaml:"metric_name"`
	ProductName     string `yaml:"product_name"`
	RateCardName    string `yaml:"rate_card_name"`
	Dimension       string `yaml:"dimension"`
	CountProperty   string `yaml:"count_property"`
	RateEffectiveAt string `yaml:"rate_effective_at"`
	ContractStartAt string `yaml:"contract_start_at"`
	// Tiers are kept in file order; rates are created in this order.
	Tiers []Tier `yaml:"tiers"`
}

// DefaultCatalog returns the image generation catalog used by the demo UI.
func DefaultCatalog() Catalog {
	return Catalog{
		EventType:       "image_generation",
		MetricName:      "Nova Image Generation",
		ProductName:     "Nova AI Image Generation",
		RateCardName:    "Nova Image Generation Pricing",
		Dimension:       "image_type",
		CountProperty:   "num_images",
		RateEffectiveAt: "2025-09-01T00:00:00Z",
		ContractStartAt: "2025-09-01T00:00:00Z",
		Tiers: []Tier{
			{Name: "standard", PriceCents: 2},
			{Name: "high-res", PriceCents: 5},
			{Name: "ultra", PriceCents: 10},
		},
	}
}

// LoadCatalog reads a YAML catalog. Fields left out keep their default values.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to read catalog file: %w", err)
	}

	catalog := DefaultCatalog()
	defaultTiers := catalog.Tiers
	catalog.Tiers = nil
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return Catalog{}, fmt.Errorf("failed to parse catalog file: %w", err)
	}
	if catalog.Tiers == nil {
		catalog.Tiers = defaultTiers
	}
	for i := range catalog.Tiers {
		catalog.Tiers[i].Name = strings.ToLower(strings.TrimSpace(catalog.Tiers[i].Name))
	}

	if err := catalog.Validate(); err != nil {
		return Catalog{}, fmt.Errorf("invalid catalog %s: %w", path, err)
	}
	return catalog, nil
}

// Validate checks the catalog for missing names, bad timestamps and duplicate tiers.
func (c Catalog) Validate() error {
	required := map[string]string{
		"event_type":     c.EventType,
		"metric_name":    c.MetricName,
		"product_name":   c.ProductName,
		"rate_card_name": c.RateCardName,
		"dimension":      c.Dimension,
		"count_property": c.CountProperty,
	}
	for name, value := range required {
		if value == "" {
			return fmt.Errorf("%s is required", name)
		}
	}

	if _, err := time.Parse(time.RFC3339, c.RateEffectiveAt); err != nil {
		return fmt.Errorf("rate_effective_at must be RFC3339: %w", err)
	}
	if _, err := time.Parse(time.RFC3339, c.ContractStartAt); err != nil {
		return fmt.Errorf("contract_start_at must be RFC3339: %w", err)
	}

	if len(c.Tiers) == 0 {
		return fmt.Errorf("at least one tier is required")
	}
	seen := make(map[string]bool, len(c.Tiers))
	for _, tier := range c.Tiers {
		if tier.Name == "" {
			return fmt.Errorf("tier name is required")
		}
		if tier.Name != strings.ToLower(strings.TrimSpace(tier.Name)) {
			return fmt.Errorf("tier %q must be lowercase without surrounding spaces", tier.Name)
		}
		if seen[tier.Name] {
			return fmt.Errorf("duplicate tier %q", tier.Name)
		}
		if tier.PriceCents < 0 {
			return fmt.Errorf("tier %q has negative price", tier.Name)
		}
		seen[tier.Name] = true
	}
	return nil
}

// TierNames returns tier names in catalog order.
func (c Catalog) TierNames() []string {
	names := make([]string, 0, len(c.Tiers))
	for _, tier := range c.Tiers {
		names = append(names, tier.Name)
	}
	return names
}

// HasTier reports whether name is a configured tier.
func (c Catalog) HasTier(name string) bool {
	for _, tier := range c.Tiers {
		if tier.Name == name {
			return true
		}
	}
	return false
}
