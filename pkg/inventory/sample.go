package inventory

import "github.com/gravitas-games/stockpile/pkg/hex"

// SampleCatalog returns a small, sci‑fi flavored item catalog used when the
// server configuration declares no items.
func SampleCatalog() *Registry {
	return NewRegistry(
		ItemDetails{ID: "smartmatter", NumericID: 1, Name: "Smart Matter Feedstock", Category: "resource", MaxStack: 999},
		ItemDetails{ID: "diamondite", NumericID: 2, Name: "Diamondite Bulk", Category: "resource", MaxStack: 999},
		ItemDetails{ID: "energy-cell", NumericID: 3, Name: "Energy Cell Pack", Category: "resource", MaxStack: 99},
		ItemDetails{ID: "ration", NumericID: 4, Name: "Field Ration", Category: "food", MaxStack: 30},
		ItemDetails{ID: "nanoforge", NumericID: 5, Name: "Nanoforge Unit", Category: "module", MaxStack: 1},
		ItemDetails{ID: "knife-missile", NumericID: 6, Name: "Knife Missile", Category: "weapon", MaxStack: 1},
	)
}

// SampleLoadout fills a fresh carried inventory for a new player.
func SampleLoadout(id string, owner OwnerID, reg *Registry) *Inventory {
	inv := New(id, owner, 12, WithRegistry(reg))
	_, _ = inv.Add(Stack{Item: "smartmatter", Qty: 40})
	_, _ = inv.Add(Stack{Item: "diamondite", Qty: 12})
	_, _ = inv.Add(Stack{Item: "energy-cell", Qty: 7})
	_, _ = inv.Add(Stack{Item: "ration", Qty: 4, Quality: 1})
	_, _ = inv.Add(Stack{Item: "nanoforge", Qty: 1})
	_, _ = inv.Add(Stack{Item: "energy-cell", Qty: 99})
	return inv
}

// SampleBase returns a handful of shared containers around origin, pre-seeded
// so that quick-stacking a SampleLoadout has somewhere to go.
func SampleBase(reg *Registry) []*Container {
	depot := NewContainer("depot-1", KindChest, 16, WithPosition(hex.Axial{Q: 1, R: 0}))
	depot.Inventory.SetRegistry(reg)
	_, _ = depot.Inventory.Add(Stack{Item: "smartmatter", Qty: 10})
	_, _ = depot.Inventory.Add(Stack{Item: "energy-cell", Qty: 95})

	silo := NewContainer("silo-1", KindSilo, 8, WithPosition(hex.Axial{Q: -1, R: 1}),
		WithAccept(AcceptItems("smartmatter", "diamondite")))
	silo.Inventory.SetRegistry(reg)
	_, _ = silo.Inventory.Add(Stack{Item: "diamondite", Qty: 500})

	cold := NewContainer("cold-1", KindColdStorage, 6, WithPosition(hex.Axial{Q: 0, R: -2}),
		WithAccept(func(s Stack) bool {
			d, ok := reg.Lookup(s.Item)
			return ok && d.Category == "food"
		}))
	cold.Inventory.SetRegistry(reg)
	_, _ = cold.Inventory.Add(Stack{Item: "ration", Qty: 10, Quality: 1})

	bin := NewContainer("bin-1", KindShippingBin, 4, WithPosition(hex.Axial{Q: 0, R: 1}))
	bin.Inventory.SetRegistry(reg)

	return []*Container{depot, silo, cold, bin}
}
