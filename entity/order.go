package entity

import (
	"fmt"
	"time"
)

// Order status lifecycle: an order is created pending when checkout is
// initiated and moves to completed or failed only after the payment result
// has been verified against the gateway.
const (
	OrderPending   = "pending"
	OrderCompleted = "completed"
	OrderFailed    = "failed"
)

// Order is a placed order owned by the document store. Id is a
// collision-resistant token; MerchantTxnId is the identifier shared with the
// payment gateway and must be unique per checkout attempt.
type Order struct {
	Id            string      `json:"id" bson:"_id"`
	MerchantTxnId string      `json:"merchant_txn_id" bson:"merchant_txn_id"`
	UserId        string      `json:"user_id" bson:"user_id"`
	Status        string      `json:"status" bson:"status"`
	Total         int         `json:"total" bson:"total"`
	Items         []OrderItem `json:"items" bson:"items"`
	CreatedAt     time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at" bson:"updated_at"`
}

// OrderItem is a cart line frozen into an order at checkout time.
type OrderItem struct {
	ItemId   string `json:"item_id" bson:"item_id"`
	Name     string `json:"name" bson:"name"`
	Price    int    `json:"price" bson:"price"`
	Quantity int    `json:"quantity" bson:"quantity"`
}

// MerchantTxnId derives the gateway-facing transaction identifier for a
// checkout attempt from the attempt time and the user id, e.g.
// ORDER_1700000000000_u1.
func MerchantTxnId(at time.Time, userId string) string {
	return fmt.Sprintf("ORDER_%d_%s", at.UnixMilli(), userId)
}
