package cart

// ItemSnapshot is the slice of the catalog item captured when it is added to
// the cart. Price is in minor currency units and is not re-read from the
// catalog afterwards.
type ItemSnapshot struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// Entry pairs an item snapshot with a quantity. Quantity is always >= 1 for
// a persisted entry; zero means removal and is never stored.
type Entry struct {
	Item     ItemSnapshot `json:"item"`
	Quantity int          `json:"quantity"`
}
