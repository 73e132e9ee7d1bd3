package domain

// CartItem is one cart line joined with its product details.
type CartItem struct {
	ProductID   string  `json:"productID"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	Quantity    int     `json:"quantity"`
	ItemTotal   float64 `json:"item_total"`
}

// CartState is the full current cart returned after every cart operation.
type CartState struct {
	Message string
	Items   []CartItem
	Total   float64
	Count   int
}
