package entity

import "testing"

func sampleCart() *Cart {
	return &Cart{
		UserId: "u1",
		Items: []CartItem{
			{ItemId: "dosa", Name: "Masala Dosa", Price: 80, Quantity: 2},
			{ItemId: "biryani", Name: "Chicken Biryani", Price: 200, Quantity: 1},
		},
	}
}

func TestCartSubtotal(t *testing.T) {
	cart := sampleCart()
	if got := cart.Subtotal(); got != 360 {
		t.Fatalf("subtotal = %d, want 360", got)
	}
	if got := cart.TotalItems(); got != 3 {
		t.Fatalf("total items = %d, want 3", got)
	}
}

func TestCartAddItemMergesLines(t *testing.T) {
	cart := sampleCart()
	cart.AddItem(CartItem{ItemId: "dosa", Name: "Masala Dosa", Price: 80, Quantity: 1})
	if len(cart.Items) != 2 {
		t.Fatalf("expected merged line, got %d lines", len(cart.Items))
	}
	if cart.Items[0].Quantity != 3 {
		t.Fatalf("quantity = %d, want 3", cart.Items[0].Quantity)
	}
}

func TestCartSetQuantity(t *testing.T) {
	cart := sampleCart()
	if !cart.SetQuantity("dosa", 5) {
		t.Fatal("expected item to be found")
	}
	if cart.Items[0].Quantity != 5 {
		t.Fatalf("quantity = %d, want 5", cart.Items[0].Quantity)
	}

	// quantity zero removes the line
	if !cart.SetQuantity("dosa", 0) {
		t.Fatal("expected item to be found")
	}
	if len(cart.Items) != 1 || cart.Items[0].ItemId != "biryani" {
		t.Fatalf("unexpected cart contents: %+v", cart.Items)
	}

	if cart.SetQuantity("missing", 1) {
		t.Fatal("expected missing item to report false")
	}
}

func TestCartOrderItems(t *testing.T) {
	cart := sampleCart()
	items := cart.OrderItems()
	if len(items) != 2 {
		t.Fatalf("got %d order items, want 2", len(items))
	}
	if items[0].Name != "Masala Dosa" || items[0].Price != 80 || items[0].Quantity != 2 {
		t.Fatalf("unexpected order item: %+v", items[0])
	}
}
