package games

// Fixed 17-slot payout tables, one per risk tier. Buckets from boards with
// fewer rows are scaled onto these proportionally (nearest index).
var plinkoPayoutTables = map[string][]float64{
	"low": {
		16, 9, 2, 1.4, 1.4, 1.2, 1.1, 1, 0.5, 1, 1.1, 1.2, 1.4, 1.4, 2, 9, 16,
	},
	"medium": {
		110, 41, 10, 5, 3, 1.5, 1, 0.5, 0.3, 0.5, 1, 1.5, 3, 5, 10, 41, 110,
	},
	"high": {
		1000, 130, 26, 9, 4, 2, 0.2, 0.2, 0.2, 0.2, 0.2, 2, 4, 9, 26, 130, 1000,
	},
}

func plinkoTable(risk string) ([]float64, bool) {
	table, ok := plinkoPayoutTables[risk]
	return table, ok
}
