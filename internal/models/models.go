package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// Product represents a product in the catalog
type Product struct {
	ID          string         `db:"id" json:"_id"`
	Name        string         `db:"name" json:"name"`
	Description string         `db:"description" json:"description"`
	Price       float64        `db:"price" json:"price"`
	Category    string         `db:"category" json:"category"`
	SubCategory string         `db:"sub_category" json:"subCategory"`
	Sizes       pq.StringArray `db:"sizes" json:"sizes"`
	Images      pq.StringArray `db:"images" json:"image"`
	Bestseller  bool           `db:"bestseller" json:"bestseller"`
	Date        time.Time      `db:"date" json:"date"`
}

// OrderItem is a snapshot of a product line at checkout time
type OrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Size      string  `json:"size"`
	Quantity  int     `json:"quantity"`
}

// UnmarshalJSON accepts the storefront's cart line shape, which names the
// product id "_id".
func (i *OrderItem) UnmarshalJSON(data []byte) error {
	type plain OrderItem
	var raw struct {
		plain
		LegacyID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*i = OrderItem(raw.plain)
	if i.ProductID == "" {
		i.ProductID = raw.LegacyID
	}
	return nil
}

// OrderItems is stored as a JSONB document
type OrderItems []OrderItem

func (i OrderItems) Value() (driver.Value, error) {
	if i == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(i)
}

func (i *OrderItems) Scan(src interface{}) error {
	return scanJSON(src, i)
}

// Address holds shipping details. The same shape is kept as a user's
// profile defaults.
type Address struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zipcode   string `json:"zipcode"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`
}

func (a Address) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *Address) Scan(src interface{}) error {
	return scanJSON(src, a)
}

// Order represents a placed order in the ledger
type Order struct {
	ID            string     `db:"id" json:"_id"`
	UserID        string     `db:"user_id" json:"userId"`
	Items         OrderItems `db:"items" json:"items"`
	Address       Address    `db:"address" json:"address"`
	Amount        float64    `db:"amount" json:"amount"`
	Status        string     `db:"status" json:"status"`
	PaymentMethod string     `db:"payment_method" json:"paymentMethod"`
	Payment       bool       `db:"payment" json:"payment"`
	Date          time.Time  `db:"date" json:"date"`
}

// User represents a storefront account
type User struct {
	ID           string    `db:"id" json:"_id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Profile      *Address  `db:"profile" json:"profile,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// Review is a user's rating of a purchased product
type Review struct {
	ID        string    `db:"id" json:"_id"`
	ProductID string    `db:"product_id" json:"productId"`
	UserID    string    `db:"user_id" json:"userId"`
	Rating    int       `db:"rating" json:"rating"`
	Comment   string    `db:"comment" json:"comment"`
	Date      time.Time `db:"date" json:"date"`
}

// ReviewWithAuthor is a review joined with the reviewer's public details
type ReviewWithAuthor struct {
	Review
	UserName  string `db:"user_name" json:"userName"`
	UserEmail string `db:"user_email" json:"userEmail"`
}

// Order statuses
const (
	OrderStatusPending        = "Pending"
	OrderStatusPlaced         = "Order Placed"
	OrderStatusPacking        = "Packing"
	OrderStatusShipped        = "Shipped"
	OrderStatusOutForDelivery = "Out for Delivery"
	OrderStatusDelivered      = "Delivered"
	OrderStatusCancelled      = "Cancelled"
)

// WorkflowStatuses are the statuses an admin may assign, in display order.
var WorkflowStatuses = []string{
	OrderStatusPlaced,
	OrderStatusPacking,
	OrderStatusShipped,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// IsWorkflowStatus reports whether status can be set by an admin.
func IsWorkflowStatus(status string) bool {
	for _, s := range WorkflowStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Payment methods
const (
	PaymentMethodCOD    = "COD"
	PaymentMethodStripe = "Stripe"
)

// ProcessedEvent for idempotency
type ProcessedEvent struct {
	EventID     string    `db:"event_id"`
	EventType   string    `db:"event_type"`
	ProcessedAt time.Time `db:"processed_at"`
}

func scanJSON(src interface{}, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported JSON column type %T", src)
	}
}
