package quickstack

import "github.com/gravitas-games/stockpile/pkg/inventory"

// ContainerMatch pairs a container with the group of one item inside it.
type ContainerMatch struct {
	Container *inventory.Container
	Group     Group
}

// IsFull reports whether no more units of the group's item fit: no member
// stack has room and the container has no free capacity for a new stack.
func (m ContainerMatch) IsFull() bool {
	return len(m.Group.notFull) == 0 && !m.Container.HasSpace()
}

// Scan builds the container-side group for rep. It returns false when the
// container refuses the item; a container holding none of it yields an
// empty group.
func Scan(c *inventory.Container, rep inventory.Stack, merge MergeFunc) (ContainerMatch, bool) {
	if c == nil || c.Inventory == nil || !c.Accepts(rep) {
		return ContainerMatch{}, false
	}
	return ContainerMatch{
		Container: c,
		Group:     collect(c.Inventory, rep, merge, nil),
	}, true
}

// rescan rebuilds the match after the container changed.
func (m ContainerMatch) rescan(merge MergeFunc) ContainerMatch {
	return ContainerMatch{
		Container: m.Container,
		Group:     collect(m.Container.Inventory, m.Group.rep, merge, nil),
	}
}
