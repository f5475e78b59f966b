package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending          OrderStatus = "pending"
	StatusAwaitingPayment  OrderStatus = "awaiting_payment"
	StatusPaymentConfirmed OrderStatus = "payment_confirmed"
	StatusProcessing       OrderStatus = "processing"
	StatusCompleted        OrderStatus = "completed"
	StatusCancelled        OrderStatus = "cancelled"
)

// Valid only gates enum membership. Admins may move an order between any two
// statuses; there is no transition graph.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAwaitingPayment, StatusPaymentConfirmed, StatusProcessing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentPix    PaymentMethod = "pix"
	PaymentCredit PaymentMethod = "credit"
	PaymentBoleto PaymentMethod = "boleto"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentPix || m == PaymentCredit || m == PaymentBoleto
}

// Address is the delivery/contact address collected at checkout. Complement
// is the only optional field.
type Address struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zipCode"`
}

// OrderItem is a snapshot of a cart line at purchase time, decoupled from the
// live product.
type OrderItem struct {
	ProductID  string          `json:"productId"`
	Name       string          `json:"name"`
	Image      string          `json:"image"`
	Category   Category        `json:"category"`
	PriceBRL   string          `json:"priceBRL"`
	PriceUSD   string          `json:"priceUSD"`
	Quantity   int             `json:"quantity"`
	Job        string          `json:"job,omitempty"`
	StartLevel int             `json:"startLevel,omitempty"`
	EndLevel   int             `json:"endLevel,omitempty"`
	GilAmount  decimal.Decimal `json:"gilAmount,omitempty"`
	TotalGil   int64           `json:"totalGil,omitempty"`
}

// Order is immutable once created except for Status, which only admins touch.
type Order struct {
	OrderID       string        `json:"id"`
	UserID        string        `json:"userId"`
	UserEmail     string        `json:"userEmail"`
	Items         []OrderItem   `json:"items"`
	Total         string        `json:"total"`
	Currency      Currency      `json:"currency"`
	Address       Address       `json:"address"`
	Discord       string        `json:"discord"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Status        OrderStatus   `json:"status"`
	CreatedAt     time.Time     `json:"createdAt"`
}
