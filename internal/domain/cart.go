package domain

// CartLine is one product-quantity pairing held in the cart.
type CartLine struct {
	ProductID   int64   `json:"productId"`
	Name        string  `json:"name"`
	DisplayName string  `json:"displayName,omitempty"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl"`
	Quantity    int     `json:"quantity"`
}

func (l CartLine) Subtotal() float64 {
	return l.Price * float64(l.Quantity)
}

// LineFromProduct builds the cart line a product page adds for the given quantity.
func LineFromProduct(p Product, quantity int) CartLine {
	return CartLine{
		ProductID:   p.ID,
		Name:        p.Name,
		DisplayName: p.DisplayName,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		Quantity:    quantity,
	}
}

// CloneLines copies lines into a new slice; nil stays nil.
func CloneLines(lines []CartLine) []CartLine {
	if lines == nil {
		return nil
	}
	out := make([]CartLine, len(lines))
	copy(out, lines)
	return out
}

// TotalAmount is the sum of price times quantity over all lines.
func TotalAmount(lines []CartLine) float64 {
	var total float64
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total
}

// TotalItems is the sum of quantities over all lines.
func TotalItems(lines []CartLine) int {
	var total int
	for _, l := range lines {
		total += l.Quantity
	}
	return total
}
