package observe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"burrowverse/internal/app/ports"
	"burrowverse/internal/app/registry"
	"burrowverse/internal/domain/grid"
)

var ErrInvalidRequest = errors.New("invalid observe request")

// maxViewCells caps the viewport area so a single request cannot walk
// the whole map tile by tile.
const maxViewCells = 4096

// TurnSource reports the scheduler position stamped onto each view.
type TurnSource interface {
	Snapshot() (turn uint64, running bool)
}

type UseCase struct {
	Registry *registry.Registry
	Grid     ports.GridService
	Turns    TurnSource
	Logger   *slog.Logger
}

// Execute answers a viewport query. The rect is inclusive on both
// corners. Hidden agents are reported with the hidden flag set; the
// renderer decides whether to draw them.
func (u *UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	rect := grid.Rect{
		Min: grid.Cell{X: req.MinX, Y: req.MinY},
		Max: grid.Cell{X: req.MaxX, Y: req.MaxY},
	}
	if rect.Max.X < rect.Min.X || rect.Max.Y < rect.Min.Y {
		return Response{}, fmt.Errorf("%w: empty rect", ErrInvalidRequest)
	}
	width := rect.Max.X - rect.Min.X + 1
	height := rect.Max.Y - rect.Min.Y + 1
	if width*height > maxViewCells {
		return Response{}, fmt.Errorf("%w: rect covers %d cells, cap is %d", ErrInvalidRequest, width*height, maxViewCells)
	}
	if u.Registry == nil {
		return Response{}, fmt.Errorf("observe: %w: registry", ports.ErrMissingCollaborator)
	}

	turn, running := u.turn()
	return Response{
		Turn:    turn,
		Running: running,
		View:    View{Min: rect.Min, Max: rect.Max, Width: width, Height: height},
		Agents:  u.projectAgents(rect),
		Forage:  u.projectForage(rect),
		Items:   u.projectItems(rect),
		Tiles:   u.projectTiles(rect, width*height),
	}, nil
}

func (u *UseCase) projectAgents(rect grid.Rect) []ObservedAgent {
	agents := u.Registry.Agents()
	out := make([]ObservedAgent, 0, len(agents))
	for _, a := range agents {
		if !rect.Contains(a.Position) {
			continue
		}
		out = append(out, ObservedAgent{
			ID:         a.ID,
			Species:    string(a.Species),
			Class:      a.Class(),
			Pos:        a.Position,
			State:      a.State,
			Hidden:     a.Hidden(),
			GroupCount: a.GroupCount,
			Carrying:   len(a.Carried),
			Hungry:     a.Hungry(),
		})
	}
	return out
}

func (u *UseCase) projectForage(rect grid.Rect) []ObservedForage {
	nodes := u.Registry.ForageNodes()
	out := make([]ObservedForage, 0, len(nodes))
	for _, n := range nodes {
		if !rect.Contains(n.Cell) {
			continue
		}
		out = append(out, ObservedForage{
			ID:       n.ID,
			Pos:      n.Cell,
			Resource: string(n.Resource),
			Grown:    n.Grown,
			RegrowIn: n.RegrowIn,
		})
	}
	return out
}

func (u *UseCase) projectItems(rect grid.Rect) []ObservedItem {
	items := u.Registry.GroundItems()
	out := make([]ObservedItem, 0, len(items))
	for _, it := range items {
		if !rect.Contains(it.Cell) {
			continue
		}
		out = append(out, ObservedItem{ID: it.ID, Pos: it.Cell, Kind: string(it.Item.Kind)})
	}
	return out
}

// projectTiles resolves terrain for every in-bounds cell of the window.
// Runs without a grid service answer with agents only.
func (u *UseCase) projectTiles(rect grid.Rect, area int) []ObservedTile {
	if u.Grid == nil {
		u.warn("grid service missing, tiles omitted from viewport")
		return nil
	}
	out := make([]ObservedTile, 0, area)
	for y := rect.Min.Y; y <= rect.Max.Y; y++ {
		for x := rect.Min.X; x <= rect.Max.X; x++ {
			c := grid.Cell{X: x, Y: y}
			if !u.Grid.IsValid(c) {
				continue
			}
			out = append(out, ObservedTile{
				Pos:        c,
				Kind:       string(u.Grid.TileKind(c)),
				IsWalkable: u.Grid.IsWalkable(c),
			})
		}
	}
	return out
}

func (u *UseCase) turn() (uint64, bool) {
	if u.Turns == nil {
		return 0, false
	}
	return u.Turns.Snapshot()
}

func (u *UseCase) warn(msg string, args ...any) {
	if u.Logger != nil {
		u.Logger.Warn(msg, args...)
	}
}
