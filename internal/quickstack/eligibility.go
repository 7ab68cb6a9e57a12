package quickstack

import "github.com/gravitas-games/stockpile/pkg/inventory"

// Config selects which container kinds take part in a run.
// Kinds without a switch are eligible unless they lack general storage.
type Config struct {
	ConsiderChests      bool
	ConsiderColdStorage bool
	ConsiderSilos       bool
	ConsiderCargoHolds  bool
	// ExcludeKinds refuses additional kinds outright.
	ExcludeKinds []inventory.Kind
}

// DefaultConfig considers every switchable kind.
func DefaultConfig() *Config {
	return &Config{
		ConsiderChests:      true,
		ConsiderColdStorage: true,
		ConsiderSilos:       true,
		ConsiderCargoHolds:  true,
	}
}

// IsEligible decides whether a container participates at all, independent of
// any item. It depends only on the container kind and cfg.
func IsEligible(c *inventory.Container, cfg *Config) bool {
	if c == nil || c.Inventory == nil || cfg == nil {
		return false
	}
	if !c.Kind.Capabilities().Has(inventory.CapStorage | inventory.CapReceive) {
		return false
	}
	for _, k := range cfg.ExcludeKinds {
		if k == c.Kind {
			return false
		}
	}
	switch c.Kind {
	case inventory.KindChest:
		return cfg.ConsiderChests
	case inventory.KindColdStorage:
		return cfg.ConsiderColdStorage
	case inventory.KindSilo:
		return cfg.ConsiderSilos
	case inventory.KindCargoHold:
		return cfg.ConsiderCargoHolds
	default:
		return true
	}
}

// EligibleContainers filters containers once per run, keeping order.
func EligibleContainers(containers []*inventory.Container, cfg *Config) []*inventory.Container {
	out := make([]*inventory.Container, 0, len(containers))
	for _, c := range containers {
		if IsEligible(c, cfg) {
			out = append(out, c)
		}
	}
	return out
}
