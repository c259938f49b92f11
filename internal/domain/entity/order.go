package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/thaisrestaurant/orderdesk-api/internal/domain/analytics"
	"gorm.io/gorm"
)

// SourceApp tags orders submitted through the order-entry form
const SourceApp = "app"

// Order represents one recorded restaurant transaction. ID is the storage
// key; OrderID is the client-generated business identifier shown in the UI.
type Order struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	OrderID   string          `gorm:"size:100;uniqueIndex;not null" json:"order_id"`
	Product   string          `gorm:"size:255;not null" json:"product"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Amount    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Source    string          `gorm:"size:50;default:'app'" json:"source"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new order
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// Record projects the order into the raw shape the aggregation pipeline
// consumes: created_at as ISO-8601 text, amount as decimal text.
func (o *Order) Record() analytics.Record {
	return analytics.Record{
		ID:        o.ID.String(),
		OrderID:   o.OrderID,
		CreatedAt: o.CreatedAt.Format(time.RFC3339Nano),
		Product:   o.Product,
		Quantity:  o.Quantity,
		Amount:    o.Amount.String(),
		Source:    o.Source,
	}
}
