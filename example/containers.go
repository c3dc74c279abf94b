// Package example holds annotated container structs together with committed
// litgen output. The *_lit.go files are produced by:
//
//	litgen generate ./example
package example

// GroceryList is an ordered shopping list.
// LIT(vec)
type GroceryList struct {
	count int
	items []int
}

// UndoStack keeps the most recent action up front.
// LIT(vecFront)
type UndoStack struct {
	depth   uint32
	actions []string
}

// Pantry is a set of product names currently in stock.
// LIT(set)
type Pantry struct {
	size     int
	products map[string]struct{}
}

// PriceList maps product names to unit prices.
// LIT(map)
type PriceList struct {
	n      int64
	prices map[string]float64
}
