package memory

import (
	"fmt"
	"sync"

	"burrowverse/internal/app/ports"
	"burrowverse/internal/domain/creature"
	"burrowverse/internal/domain/grid"
)

const defaultCapacity = 50

// DenSpec describes one den of the layout.
type DenSpec struct {
	ID       string
	X        int
	Y        int
	Capacity int
}

// Directory is the in-process den table: id and cell lookup, occupancy,
// stored food and materials. It implements both the directory and the
// inventory ports. Dens never move once added.
type Directory struct {
	mu      sync.RWMutex
	dens    map[string]*den
	byCell  map[grid.Cell]string
	order   []string
	restore int
}

type den struct {
	dir        *Directory
	id         string
	cell       grid.Cell
	capacity   int
	storedFood int
	materials  int
	occupants  map[string]bool
}

// NewDirectory builds an empty directory. restorePerUnit is the hunger
// restored by one stored food unit; zero picks the default.
func NewDirectory(restorePerUnit int) *Directory {
	if restorePerUnit <= 0 {
		restorePerUnit = creature.DefaultStoredFoodRestore
	}
	return &Directory{
		dens:    make(map[string]*den),
		byCell:  make(map[grid.Cell]string),
		restore: restorePerUnit,
	}
}

// Add registers a den. Duplicate ids and cells are rejected.
func (d *Directory) Add(spec DenSpec) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if spec.ID == "" {
		return fmt.Errorf("add den: empty id: %w", ports.ErrInvalidSpawn)
	}
	cell := grid.Cell{X: spec.X, Y: spec.Y}
	if _, ok := d.dens[spec.ID]; ok {
		return fmt.Errorf("add den %s: %w", spec.ID, ports.ErrConflict)
	}
	if other, ok := d.byCell[cell]; ok {
		return fmt.Errorf("add den %s at (%d,%d): cell taken by %s: %w", spec.ID, cell.X, cell.Y, other, ports.ErrConflict)
	}
	capacity := spec.Capacity
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	d.dens[spec.ID] = &den{
		dir:       d,
		id:        spec.ID,
		cell:      cell,
		capacity:  capacity,
		occupants: make(map[string]bool),
	}
	d.byCell[cell] = spec.ID
	d.order = append(d.order, spec.ID)
	return nil
}

func (d *Directory) Lookup(denID string) (ports.Hideable, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	dn, ok := d.dens[denID]
	if !ok {
		return nil, false
	}
	return dn, true
}

func (d *Directory) DenAt(c grid.Cell) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	id, ok := d.byCell[c]
	return id, ok
}

// Deposit stores one item. Food counts toward stored food, everything
// else toward materials. A full den drops the item.
func (d *Directory) Deposit(denID string, item creature.ItemRecord) {
	d.mu.Lock()
	defer d.mu.Unlock()
	dn, ok := d.dens[denID]
	if !ok {
		return
	}
	if dn.storedFood+dn.materials >= dn.capacity {
		return
	}
	if item.Kind.IsFood() {
		dn.storedFood++
	} else {
		dn.materials++
	}
}

func (d *Directory) HasStoredFood(denID string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	dn, ok := d.dens[denID]
	return ok && dn.storedFood > 0
}

// SpendStoredFood consumes one unit and returns the hunger it restores,
// zero when the den is empty or unknown.
func (d *Directory) SpendStoredFood(denID string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	dn, ok := d.dens[denID]
	if !ok || dn.storedFood <= 0 {
		return 0
	}
	dn.storedFood--
	return d.restore
}

// Records snapshots every den in registration order for persistence.
func (d *Directory) Records() []ports.DenStateRecord {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]ports.DenStateRecord, 0, len(d.order))
	for _, id := range d.order {
		dn := d.dens[id]
		out = append(out, ports.DenStateRecord{
			DenID:      dn.id,
			X:          dn.cell.X,
			Y:          dn.cell.Y,
			Capacity:   dn.capacity,
			StoredFood: dn.storedFood,
			Occupants:  len(dn.occupants),
		})
	}
	return out
}

// Restore applies persisted stored food onto already-added dens.
// Records for unknown dens are ignored; occupancy is runtime state and
// starts empty.
func (d *Directory) Restore(records []ports.DenStateRecord) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, rec := range records {
		dn, ok := d.dens[rec.DenID]
		if !ok {
			continue
		}
		dn.storedFood = rec.StoredFood
	}
}

func (dn *den) Position() grid.Cell { return dn.cell }

func (dn *den) OnEnter(agentID string) {
	dn.dir.mu.Lock()
	defer dn.dir.mu.Unlock()
	dn.occupants[agentID] = true
}

func (dn *den) OnLeave(agentID string) {
	dn.dir.mu.Lock()
	defer dn.dir.mu.Unlock()
	delete(dn.occupants, agentID)
}
