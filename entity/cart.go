package entity

// Cart is a per-user cart snapshot. It is stored as a single value keyed by
// user id, so concurrent updates from two sessions are last-write-wins.
type Cart struct {
	UserId string     `json:"user_id"`
	Items  []CartItem `json:"items"`
}

// CartItem is one menu item with a chosen quantity.
type CartItem struct {
	ItemId   string `json:"item_id"`
	Name     string `json:"name"`
	Price    int    `json:"price"`
	Image    string `json:"image"`
	Quantity int    `json:"quantity"`
}

// Subtotal returns the cart total in rupees, without the delivery fee.
func (c *Cart) Subtotal() int {
	total := 0
	for _, item := range c.Items {
		total += item.Price * item.Quantity
	}
	return total
}

// TotalItems returns the number of units across all lines.
func (c *Cart) TotalItems() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// AddItem merges a line into the cart, increasing the quantity if the item
// is already present.
func (c *Cart) AddItem(item CartItem) {
	for i, line := range c.Items {
		if line.ItemId == item.ItemId {
			c.Items[i].Quantity += item.Quantity
			return
		}
	}
	c.Items = append(c.Items, item)
}

// SetQuantity sets the quantity of a line; quantity zero or less removes it.
// Returns false if the item is not in the cart.
func (c *Cart) SetQuantity(itemId string, quantity int) bool {
	for i, line := range c.Items {
		if line.ItemId == itemId {
			if quantity <= 0 {
				c.Items = append(c.Items[:i], c.Items[i+1:]...)
			} else {
				c.Items[i].Quantity = quantity
			}
			return true
		}
	}
	return false
}

// Remove deletes a line from the cart. Returns false if the item is not present.
func (c *Cart) Remove(itemId string) bool {
	return c.SetQuantity(itemId, 0)
}

// OrderItems freezes the cart lines into order items.
func (c *Cart) OrderItems() []OrderItem {
	items := make([]OrderItem, 0, len(c.Items))
	for _, line := range c.Items {
		items = append(items, OrderItem{
			ItemId:   line.ItemId,
			Name:     line.Name,
			Price:    line.Price,
			Quantity: line.Quantity,
		})
	}
	return items
}
