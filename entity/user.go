package entity

// User is the identity supplied by the external identity provider.
// The service never stores users; it only reads them from verified tokens.
type User struct {
	Id    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Admin bool   `json:"admin"`
}

// CheckoutSession carries everything the checkout flow needs: the verified
// identity, a snapshot of the user's cart and the origin the gateway should
// redirect back to. It is built per request, never shared.
type CheckoutSession struct {
	User   User
	Cart   Cart
	Origin string
}
