package entity

// Product is a menu item as listed inside a coffee shop's menu.
type Product struct {
	ID          string  `json:"id"`
	CategoryID  string  `json:"categoryId"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	Price       float64 `json:"price"`
	IsAvailable bool    `json:"isAvailable"`
}

// CartItem is one line of the persisted cart. TotalPrice is always
// UnitPrice*Quantity; the cart slice recomputes it on every write so the two
// cannot drift apart.
type CartItem struct {
	ID             string   `json:"id"`
	ProductID      string   `json:"productId"`
	ProductName    string   `json:"productName"`
	Quantity       int      `json:"quantity"`
	UnitPrice      float64  `json:"unitPrice"`
	Customizations []string `json:"customizations,omitempty"`
	Notes          string   `json:"notes,omitempty"`
	TotalPrice     float64  `json:"totalPrice"`
}
