// Package scenario loads quick stack setups from YAML and runs them offline.
package scenario

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/gravitas-games/stockpile/internal/config"
	"github.com/gravitas-games/stockpile/internal/quickstack"
	"github.com/gravitas-games/stockpile/pkg/hex"
	"github.com/gravitas-games/stockpile/pkg/inventory"
)

// Slot is one occupied slot in a scenario file
type Slot struct {
	Index           int `yaml:"index"`
	inventory.Stack `yaml:",inline"`
}

// Source describes the inventory being emptied
type Source struct {
	Size  int    `yaml:"size"`
	Slots []Slot `yaml:"slots"`
}

// Container describes one storage container
type Container struct {
	ID       string             `yaml:"id"`
	Kind     inventory.Kind     `yaml:"kind"`
	Size     int                `yaml:"size"`
	Capacity int                `yaml:"capacity"` // defaults to size
	Owner    inventory.OwnerID  `yaml:"owner"`
	Position hex.Axial          `yaml:"position"`
	Accept   []inventory.ItemID `yaml:"accept"` // empty accepts everything
	Slots    []Slot             `yaml:"slots"`
}

// Scenario is a complete offline quick stack setup
type Scenario struct {
	Name       string                  `yaml:"name"`
	Items      []inventory.ItemDetails `yaml:"items"`
	QuickStack config.QuickStackConfig `yaml:"quick_stack"`
	Source     Source                  `yaml:"source"`
	Containers []Container             `yaml:"containers"`
}

// ContainerState is a container's contents after a run
type ContainerState struct {
	ID        string             `json:"id"`
	Kind      inventory.Kind     `json:"kind"`
	Eligible  bool               `json:"eligible"`
	Inventory inventory.Snapshot `json:"inventory"`
}

// Outcome is what Run reports
type Outcome struct {
	Name       string             `json:"name,omitempty"`
	Result     *quickstack.Result `json:"result"`
	Source     inventory.Snapshot `json:"source"`
	Containers []ContainerState   `json:"containers"`
}

// Load reads a scenario file
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	return Parse(data)
}

// Parse decodes a scenario
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if sc.Source.Size <= 0 {
		return nil, errors.New("scenario: source.size must be positive")
	}
	return &sc, nil
}

// Build materializes the registry, source and containers. Without an items
// section every stack must carry its own stack_max.
func (sc *Scenario) Build() (*inventory.Registry, *inventory.Inventory, []*inventory.Container, error) {
	var reg *inventory.Registry
	if len(sc.Items) > 0 {
		reg = inventory.NewRegistry()
		for _, item := range sc.Items {
			if err := reg.RegisterDetails(item); err != nil {
				return nil, nil, nil, fmt.Errorf("item %q: %w", item.ID, err)
			}
		}
	}

	var opts []inventory.Option
	if reg != nil {
		opts = append(opts, inventory.WithRegistry(reg))
	}

	src := inventory.New("source", "", sc.Source.Size, opts...)
	if err := fill(src, sc.Source.Slots); err != nil {
		return nil, nil, nil, fmt.Errorf("source: %w", err)
	}

	seen := make(map[string]bool, len(sc.Containers))
	containers := make([]*inventory.Container, 0, len(sc.Containers))
	for _, cs := range sc.Containers {
		if seen[cs.ID] {
			return nil, nil, nil, fmt.Errorf("duplicate container %q", cs.ID)
		}
		seen[cs.ID] = true

		copts := []inventory.ContainerOption{
			inventory.WithOwner(cs.Owner),
			inventory.WithPosition(cs.Position),
		}
		if cs.Capacity > 0 {
			copts = append(copts, inventory.WithCapacity(cs.Capacity))
		}
		if len(cs.Accept) > 0 {
			copts = append(copts, inventory.WithAccept(inventory.AcceptItems(cs.Accept...)))
		}
		kind := cs.Kind
		if kind == "" {
			kind = inventory.KindChest
		}
		c := inventory.NewContainer(cs.ID, kind, cs.Size, copts...)
		c.Inventory.SetRegistry(reg)
		if err := c.Validate(); err != nil {
			return nil, nil, nil, fmt.Errorf("container %q: %w", cs.ID, err)
		}
		if err := fill(c.Inventory, cs.Slots); err != nil {
			return nil, nil, nil, fmt.Errorf("container %q: %w", cs.ID, err)
		}
		if c.Inventory.Occupied() > c.Capacity {
			return nil, nil, nil, fmt.Errorf("container %q: %d stacks exceed capacity %d", cs.ID, c.Inventory.Occupied(), c.Capacity)
		}
		containers = append(containers, c)
	}
	return reg, src, containers, nil
}

func fill(inv *inventory.Inventory, slots []Slot) error {
	for _, slot := range slots {
		if err := inv.Put(slot.Index, slot.Stack); err != nil {
			return err
		}
	}
	return nil
}

// Run builds the scenario and quick stacks the source into the containers
func (sc *Scenario) Run(logger *zap.Logger, recorder quickstack.Recorder) (*Outcome, error) {
	reg, src, containers, err := sc.Build()
	if err != nil {
		return nil, err
	}

	opts := []quickstack.Option{
		quickstack.WithLogger(logger),
		quickstack.WithRecorder(recorder),
		quickstack.WithPickOrder(sc.QuickStack.PickOrder()),
	}
	if reg != nil {
		opts = append(opts, quickstack.WithMerge(reg.CanMerge))
	}
	cfg := sc.QuickStack.Eligibility()

	res, err := quickstack.New(opts...).Run(src, containers, cfg)
	if err != nil {
		return nil, err
	}

	out := &Outcome{
		Name:       sc.Name,
		Result:     res,
		Source:     src.Snapshot(),
		Containers: make([]ContainerState, len(containers)),
	}
	for i, c := range containers {
		out.Containers[i] = ContainerState{
			ID:        c.ID,
			Kind:      c.Kind,
			Eligible:  quickstack.IsEligible(c, cfg),
			Inventory: c.Inventory.Snapshot(),
		}
	}
	return out, nil
}
