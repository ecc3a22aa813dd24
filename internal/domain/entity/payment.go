package entity

// PaymentMethodType enumerates the supported payment instruments.
type PaymentMethodType string

const (
	PaymentCard   PaymentMethodType = "card"
	PaymentKaspi  PaymentMethodType = "kaspi"
	PaymentApple  PaymentMethodType = "apple_pay"
	PaymentGoogle PaymentMethodType = "google_pay"
	PaymentCash   PaymentMethodType = "cash"
)

// PaymentMethod is a saved payment instrument. At most one method in a
// collection may have IsDefault set; the payments slice enforces that.
type PaymentMethod struct {
	ID        string            `json:"id"`
	Type      PaymentMethodType `json:"type"`
	Title     string            `json:"title"`
	Last4     string            `json:"last4,omitempty"`
	IsDefault bool              `json:"isDefault"`
	IsActive  bool              `json:"isActive"`
}
