package registry

import (
	"fmt"

	"burrowverse/internal/app/ports"
	"burrowverse/internal/domain/creature"
	"burrowverse/internal/domain/grid"
)

// ForageNode is one harvestable spot. Harvesting flips it to growing;
// TickRegrowth flips it back after RegrowTurns turns.
type ForageNode struct {
	ID          string            `json:"id"`
	Cell        grid.Cell         `json:"cell"`
	Resource    creature.ItemKind `json:"resource"`
	Restore     int               `json:"restore"`
	Grown       bool              `json:"grown"`
	RegrowIn    int               `json:"regrow_in"`
	RegrowTurns int               `json:"regrow_turns"`
}

// GroundItem is a loose item a worker can pick up.
type GroundItem struct {
	ID   string              `json:"id"`
	Cell grid.Cell           `json:"cell"`
	Item creature.ItemRecord `json:"item"`
}

// AddForage registers a grown node. The id is derived from the cell and
// resource so re-adding the same spot is a no-op returning the original.
func (r *Registry) AddForage(at grid.Cell, resource creature.ItemKind, restore, regrowTurns int) ForageNode {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := forageID(at, resource)
	if i, ok := r.forageIdx[id]; ok {
		return r.forage[i]
	}
	if regrowTurns <= 0 {
		regrowTurns = creature.DefaultForageRegrowTurns
	}
	node := ForageNode{
		ID:          id,
		Cell:        at,
		Resource:    resource,
		Restore:     restore,
		Grown:       true,
		RegrowTurns: regrowTurns,
	}
	r.forageIdx[id] = len(r.forage)
	r.forage = append(r.forage, node)
	return node
}

func forageID(at grid.Cell, resource creature.ItemKind) string {
	return fmt.Sprintf("forage_%d_%d_%s", at.X, at.Y, resource)
}

func (r *Registry) ForageNodes() []ForageNode {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ForageNode, len(r.forage))
	copy(out, r.forage)
	return out
}

// NearestForage finds the closest grown node carrying the resource,
// ties broken by registration order.
func (r *Registry) NearestForage(from grid.Cell, radius int, resource creature.ItemKind) (ForageNode, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	best := ForageNode{}
	bestDist := -1
	for _, node := range r.forage {
		if !node.Grown || node.Resource != resource {
			continue
		}
		d := grid.Manhattan(from, node.Cell)
		if radius >= 0 && d > radius {
			continue
		}
		if bestDist < 0 || d < bestDist {
			best = node
			bestDist = d
		}
	}
	return best, bestDist >= 0
}

// HarvestForage reverts a grown node to growing and returns its record.
func (r *Registry) HarvestForage(id string) (ForageNode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.forageIdx[id]
	if !ok {
		return ForageNode{}, fmt.Errorf("harvest %s: %w", id, ports.ErrStaleReference)
	}
	node := &r.forage[i]
	if !node.Grown {
		return ForageNode{}, fmt.Errorf("harvest %s: %w: still growing", id, ports.ErrConflict)
	}
	node.Grown = false
	node.RegrowIn = node.RegrowTurns
	return *node, nil
}

// TickRegrowth advances every growing node by one turn.
func (r *Registry) TickRegrowth() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.forage {
		node := &r.forage[i]
		if node.Grown || node.RegrowIn <= 0 {
			continue
		}
		node.RegrowIn--
		if node.RegrowIn == 0 {
			node.Grown = true
		}
	}
}

// DropItem places a loose item on the ground.
func (r *Registry) DropItem(at grid.Cell, item creature.ItemRecord) GroundItem {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.itemSeq++
	gi := GroundItem{
		ID:   fmt.Sprintf("item_%06d", r.itemSeq),
		Cell: at,
		Item: item,
	}
	r.itemsIdx[gi.ID] = len(r.items)
	r.items = append(r.items, gi)
	return gi
}

func (r *Registry) GroundItems() []GroundItem {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]GroundItem, 0, len(r.items))
	for _, gi := range r.items {
		if gi.ID != "" {
			out = append(out, gi)
		}
	}
	return out
}

// NearestGroundItem finds the closest loose item, ties broken by drop
// order.
func (r *Registry) NearestGroundItem(from grid.Cell, radius int) (GroundItem, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	best := GroundItem{}
	bestDist := -1
	for _, gi := range r.items {
		if gi.ID == "" {
			continue
		}
		d := grid.Manhattan(from, gi.Cell)
		if radius >= 0 && d > radius {
			continue
		}
		if bestDist < 0 || d < bestDist {
			best = gi
			bestDist = d
		}
	}
	return best, bestDist >= 0
}

// TakeGroundItem removes a loose item and hands it to the caller.
func (r *Registry) TakeGroundItem(id string) (GroundItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.itemsIdx[id]
	if !ok || r.items[i].ID == "" {
		return GroundItem{}, fmt.Errorf("take %s: %w", id, ports.ErrStaleReference)
	}
	taken := r.items[i]
	r.items[i] = GroundItem{}
	delete(r.itemsIdx, id)
	return taken, nil
}
