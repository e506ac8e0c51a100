package domain

// CartLine is one product in a cart. Quantity is always >= 1; a line whose
// quantity would drop to zero is removed from the snapshot, never stored at 0.
type CartLine struct {
	ProductID      int64  `json:"productId"`
	Name           string `json:"name"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	ImageURL       string `json:"imageUrl,omitempty"`
	Quantity       int    `json:"quantity"`
}

// TotalCents is the line subtotal.
func (l CartLine) TotalCents() int64 {
	return l.UnitPriceCents * int64(l.Quantity)
}

// WishlistEntry is membership-only: there is no quantity on a wishlist.
type WishlistEntry struct {
	ProductID      int64  `json:"productId"`
	Name           string `json:"name"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	ImageURL       string `json:"imageUrl,omitempty"`
}

// Snapshot is the full cart+wishlist state at an instant. Ordering carries no
// meaning; each collection holds at most one record per product.
type Snapshot struct {
	Cart     []CartLine      `json:"cart"`
	Wishlist []WishlistEntry `json:"wishlist"`
}

// CartTotalCents recomputes the cart total from the lines on every call, so
// the total can never drift from the line items.
func (s Snapshot) CartTotalCents() int64 {
	var total int64
	for _, l := range s.Cart {
		total += l.TotalCents()
	}
	return total
}

// CartCount is the summed quantity across all lines, not the line count.
func (s Snapshot) CartCount() int {
	var count int
	for _, l := range s.Cart {
		count += l.Quantity
	}
	return count
}

// Clone deep-copies the snapshot so callers can hold it without aliasing the
// engine's state.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{}
	if len(s.Cart) > 0 {
		out.Cart = make([]CartLine, len(s.Cart))
		copy(out.Cart, s.Cart)
	}
	if len(s.Wishlist) > 0 {
		out.Wishlist = make([]WishlistEntry, len(s.Wishlist))
		copy(out.Wishlist, s.Wishlist)
	}
	return out
}
