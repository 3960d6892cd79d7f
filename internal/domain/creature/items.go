package creature

type ItemKind string

const (
	ItemSeed  ItemKind = "seed"
	ItemGrain ItemKind = "grain"
	ItemTwig  ItemKind = "twig"
)

var foodItems = map[ItemKind]bool{
	ItemSeed:  true,
	ItemGrain: true,
}

func (k ItemKind) IsFood() bool {
	return foodItems[k]
}

// ItemRecord is one carried or ground item. Origin names where the item
// came from (a forage node id or "ground") for journal payloads.
type ItemRecord struct {
	Kind   ItemKind `json:"kind"`
	Origin string   `json:"origin"`
}
