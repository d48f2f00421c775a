package dto

import "time"

// OrderResponse describes an order for buyers and admins.
type OrderResponse struct {
	ID              string    `json:"id"`
	CustomerName    string    `json:"customer_name"`
	CustomerEmail   string    `json:"customer_email"`
	CustomerPhone   string    `json:"customer_phone"`
	TotalAmount     string    `json:"total_amount"`
	Status          string    `json:"status"`
	RejectionReason *string   `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// OrderItemResponse is an order line joined with its book.
type OrderItemResponse struct {
	ID        string  `json:"id"`
	BookID    string  `json:"book_id"`
	Price     string  `json:"price"`
	Title     string  `json:"title,omitempty"`
	Author    string  `json:"author,omitempty"`
	BookPrice *string `json:"book_price,omitempty"`
	CoverKey  string  `json:"cover_key,omitempty"`
}

// RejectRequest carries the reason shown to the buyer.
type RejectRequest struct {
	Reason string `json:"reason"`
}

// PurchasedBookResponse is one entry of the buyer's library.
type PurchasedBookResponse struct {
	Book        BookResponse `json:"book"`
	OrderID     string       `json:"order_id"`
	PurchasedAt time.Time    `json:"purchased_at"`
}
