package observe

import (
	"burrowverse/internal/domain/creature"
	"burrowverse/internal/domain/grid"
)

type Request struct {
	MinX int
	MinY int
	MaxX int
	MaxY int
}

type Response struct {
	Turn    uint64           `json:"turn"`
	Running bool             `json:"running"`
	View    View             `json:"view"`
	Agents  []ObservedAgent  `json:"agents"`
	Forage  []ObservedForage `json:"forage"`
	Items   []ObservedItem   `json:"items"`
	Tiles   []ObservedTile   `json:"tiles,omitempty"`
}

type View struct {
	Min    grid.Cell `json:"min"`
	Max    grid.Cell `json:"max"`
	Width  int       `json:"width"`
	Height int       `json:"height"`
}

type ObservedAgent struct {
	ID         string         `json:"id"`
	Species    string         `json:"species"`
	Class      creature.Class `json:"class"`
	Pos        grid.Cell      `json:"pos"`
	State      creature.State `json:"state"`
	Hidden     bool           `json:"hidden"`
	GroupCount int            `json:"group_count"`
	Carrying   int            `json:"carrying"`
	Hungry     bool           `json:"hungry"`
}

type ObservedForage struct {
	ID       string    `json:"id"`
	Pos      grid.Cell `json:"pos"`
	Resource string    `json:"resource"`
	Grown    bool      `json:"grown"`
	RegrowIn int       `json:"regrow_in"`
}

type ObservedItem struct {
	ID   string    `json:"id"`
	Pos  grid.Cell `json:"pos"`
	Kind string    `json:"kind"`
}

type ObservedTile struct {
	Pos        grid.Cell `json:"pos"`
	Kind       string    `json:"kind"`
	IsWalkable bool      `json:"is_walkable"`
}
