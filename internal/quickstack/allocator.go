package quickstack

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/gravitas-games/stockpile/pkg/inventory"
)

var (
	// ErrNilSource is returned when Run is called without a source inventory.
	ErrNilSource = errors.New("quickstack: nil source inventory")
	// ErrNilConfig is returned when Run is called without a configuration.
	ErrNilConfig = errors.New("quickstack: nil config")
	// ErrInvariant marks an inconsistent group or slot found mid-run. The
	// affected group is skipped; the run continues.
	ErrInvariant = errors.New("quickstack: invariant violated")
)

// PickOrder decides which source slot of a group moves next.
type PickOrder int

const (
	// PickHighestFirst drains the group from the end of the inventory.
	PickHighestFirst PickOrder = iota
	// PickLowestFirst drains the group from the start of the inventory.
	PickLowestFirst
)

// Recorder observes runs. Implementations must be cheap; they are called
// inline.
type Recorder interface {
	RunCompleted(res *Result, elapsed time.Duration)
	RunFailed(err error)
	PairSkipped(reason string)
}

type nopRecorder struct{}

func (nopRecorder) RunCompleted(*Result, time.Duration) {}
func (nopRecorder) RunFailed(error)                     {}
func (nopRecorder) PairSkipped(string)                  {}

// Allocator runs quick-stack consolidation. It holds no per-run state and
// may be shared, but a run needs exclusive access to the inventories it
// touches.
type Allocator struct {
	merge    MergeFunc
	logger   *zap.Logger
	recorder Recorder
	pick     PickOrder
}

// Option configures an Allocator.
type Option func(*Allocator)

// WithMerge sets the compatibility predicate. Defaults to inventory.SameKind.
func WithMerge(merge MergeFunc) Option {
	return func(a *Allocator) {
		if merge != nil {
			a.merge = merge
		}
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Allocator) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(a *Allocator) {
		if r != nil {
			a.recorder = r
		}
	}
}

// WithPickOrder overrides which source slot moves first.
func WithPickOrder(p PickOrder) Option {
	return func(a *Allocator) { a.pick = p }
}

// New creates an Allocator.
func New(opts ...Option) *Allocator {
	a := &Allocator{
		merge:    inventory.SameKind,
		logger:   zap.NewNop(),
		recorder: nopRecorder{},
		pick:     PickHighestFirst,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// Plan groups src, maps groups to destinations and orders both: groups with
// fewer destinations first, and within a group the destination already
// holding the most units first. Ties keep scan order. Groups without any
// destination are dropped. Nothing is mutated.
func (a *Allocator) Plan(src *inventory.Inventory, containers []*inventory.Container, cfg *Config) ([]Assignment, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	if cfg == nil {
		return nil, ErrNilConfig
	}

	candidates := make([]*inventory.Container, 0, len(containers))
	for _, c := range containers {
		if c != nil && c.Inventory != src {
			candidates = append(candidates, c)
		}
	}

	mapped := Map(DetermineGroups(src, a.merge), candidates, cfg, a.merge)
	plan := mapped[:0]
	for _, as := range mapped {
		if len(as.Destinations) > 0 {
			plan = append(plan, as)
		}
	}
	sort.SliceStable(plan, func(i, j int) bool {
		return len(plan[i].Destinations) < len(plan[j].Destinations)
	})
	for _, as := range plan {
		dests := as.Destinations
		sort.SliceStable(dests, func(i, j int) bool {
			return dests[i].Group.TotalUnits() > dests[j].Group.TotalUnits()
		})
	}
	return plan, nil
}

// Run moves stackable items from src into matching stacks of eligible
// containers and reports the source slots it changed. Both src and the
// containers are mutated in place. Only missing arguments are returned as
// errors; an inconsistent group is skipped and work already done stands.
func (a *Allocator) Run(src *inventory.Inventory, containers []*inventory.Container, cfg *Config) (*Result, error) {
	start := time.Now()
	plan, err := a.Plan(src, containers, cfg)
	if err != nil {
		a.recorder.RunFailed(err)
		return nil, fmt.Errorf("quick stack: %w", err)
	}

	rb := newResultBuilder()
	for _, as := range plan {
		if err := a.consolidate(src, as, rb); err != nil {
			a.recorder.PairSkipped("invariant")
			a.logger.Warn("skipping group",
				zap.String("item", string(as.Group.rep.Item)),
				zap.Int("quality", as.Group.rep.Quality),
				zap.Error(err),
			)
		}
	}

	res := rb.build()
	a.recorder.RunCompleted(res, time.Since(start))
	a.logger.Debug("quick stack complete",
		zap.String("inventory", src.ID),
		zap.Int("groups", len(plan)),
		zap.Int("changed_slots", len(res.changed)),
		zap.Int("units_moved", res.units),
	)
	return res, nil
}

// consolidate drains one group into its ordered destinations.
func (a *Allocator) consolidate(src *inventory.Inventory, as Assignment, rb *resultBuilder) error {
	group := collect(src, as.Group.rep, a.merge, as.Group.Indexes())
	if group.IsEmpty() {
		a.recorder.PairSkipped("unresolved")
		a.logger.Debug("group no longer present", zap.String("item", string(as.Group.rep.Item)))
		return nil
	}

	dests := make([]ContainerMatch, len(as.Destinations))
	for i, d := range as.Destinations {
		dests[i] = d.rescan(a.merge)
	}
	for !group.IsEmpty() {
		next := -1
		for i := range dests {
			if !dests[i].IsFull() {
				next = i
				break
			}
		}
		if next < 0 {
			break
		}
		var err error
		group, dests[next], err = a.transfer(src, group, dests[next], rb)
		if err != nil {
			return err
		}
	}
	return nil
}

// transfer moves units from group into dest until one side runs out. Every
// step either empties a source slot or fills a destination slot, and both
// sides are rebuilt from the inventories after each step.
func (a *Allocator) transfer(src *inventory.Inventory, group Group, dest ContainerMatch, rb *resultBuilder) (Group, ContainerMatch, error) {
	dinv := dest.Container.Inventory
	budget := src.Len() + dinv.Len() + 1

	for !group.IsEmpty() && !dest.IsFull() {
		if budget--; budget < 0 {
			return group, dest, fmt.Errorf("%w: transfer into %s did not converge", ErrInvariant, dest.Container.ID)
		}

		si := a.pickSource(group)
		st, ok := src.At(si)
		if !ok || !a.merge(group.rep, st) {
			return group, dest, fmt.Errorf("%w: source slot %d no longer holds %s", ErrInvariant, si, group.rep.Item)
		}

		move := Move{
			SourceSlot:  si,
			ContainerID: dest.Container.ID,
			Item:        st.Item,
			Quality:     st.Quality,
		}

		switch {
		case len(dest.Group.notFull) > 0:
			di := dest.Group.notFull[0]
			dst, ok := dinv.At(di)
			if !ok || dst.Full() || containsIndex(dest.Group.full, di) {
				return group, dest, fmt.Errorf("%w: slot %d of %s misclassified", ErrInvariant, di, dest.Container.ID)
			}
			n := st.Qty
			if room := dst.Room(); n > room {
				n = room
			}
			dst.Qty += n
			st.Qty -= n
			if err := dinv.Set(di, dst); err != nil {
				return group, dest, fmt.Errorf("%w: %v", ErrInvariant, err)
			}
			if err := src.Set(si, st); err != nil {
				return group, dest, fmt.Errorf("%w: %v", ErrInvariant, err)
			}
			move.TargetSlot, move.Qty, move.Merged = di, n, true

		case dest.Container.HasSpace():
			di := dinv.FirstEmpty()
			if err := dinv.Put(di, st); err != nil {
				return group, dest, fmt.Errorf("%w: %v", ErrInvariant, err)
			}
			if err := src.Clear(si); err != nil {
				return group, dest, fmt.Errorf("%w: %v", ErrInvariant, err)
			}
			move.TargetSlot, move.Qty = di, st.Qty

		default:
			return group, dest, nil
		}

		rb.record(move)
		group = collect(src, group.rep, a.merge, group.Indexes())
		dest = dest.rescan(a.merge)
	}
	return group, dest, nil
}

func (a *Allocator) pickSource(g Group) int {
	idx := g.Indexes()
	if a.pick == PickLowestFirst {
		return idx[0]
	}
	return idx[len(idx)-1]
}

func containsIndex(s []int, idx int) bool {
	pos := sort.SearchInts(s, idx)
	return pos < len(s) && s[pos] == idx
}
