package quickstack

import "github.com/gravitas-games/stockpile/pkg/inventory"

// Assignment is a source group together with the containers it may move to.
type Assignment struct {
	Group        Group
	Destinations []ContainerMatch
}

// Map pairs every source group with the eligible containers that already
// hold at least one matching stack and are not full for it. Containers that
// hold none of an item are never destinations for it, even with free space.
// Groups without a resolvable representative are dropped.
func Map(groups []Group, containers []*inventory.Container, cfg *Config, merge MergeFunc) []Assignment {
	eligible := EligibleContainers(containers, cfg)
	out := make([]Assignment, 0, len(groups))
	for _, g := range groups {
		if g.IsEmpty() || !g.resolvable() {
			continue
		}
		a := Assignment{Group: g}
		for _, c := range eligible {
			m, ok := Scan(c, g.rep, merge)
			if !ok || m.Group.IsEmpty() || m.IsFull() {
				continue
			}
			a.Destinations = append(a.Destinations, m)
		}
		out = append(out, a)
	}
	return out
}
