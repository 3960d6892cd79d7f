package grid

type TileKind string

const (
	TileSand  TileKind = "sand"
	TileScrub TileKind = "scrub"
	TileRock  TileKind = "rock"
	TileWater TileKind = "water"
	TileDen   TileKind = "den"
)

type Tile struct {
	X        int      `json:"x"`
	Y        int      `json:"y"`
	Kind     TileKind `json:"kind"`
	Passable bool     `json:"passable"`
}
