package request

// CreateOrderRequest represents an order submission. OrderID is the
// client-generated unique token; the server generates one when omitted.
// Amount arrives as decimal text so no precision is lost in transit.
type CreateOrderRequest struct {
	OrderID  string `json:"order_id"`
	Product  string `json:"product" binding:"required"`
	Quantity int    `json:"quantity" binding:"min=0"`
	Amount   string `json:"amount" binding:"required"`
}
