package domain

import "time"

// OrderStatus enumerates the order lifecycle states. Transitions between
// states are unconstrained; only membership in the set is checked.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is one of the enumerated statuses.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderPending, OrderProcessing, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// CartItem is a denormalized snapshot of a product at order time. It carries
// no live reference: later product mutations or deletions never affect it.
type CartItem struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Images      ImageList `json:"image"`
	Description string    `json:"description"`
	Quantity    int       `json:"quantity"`
}

// Order is a customer checkout. Orders are created publicly; status changes
// and deletion require the admin principal.
type Order struct {
	ID            string      `json:"id"`
	Items         []CartItem  `json:"items"`
	Total         float64     `json:"total"`
	CustomerName  string      `json:"customerName"`
	Email         string      `json:"email"`
	ContactNumber string      `json:"contactNumber"`
	Address       string      `json:"address"`
	Status        OrderStatus `json:"status"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}
