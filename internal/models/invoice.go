package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// InvoiceStatus is the invoice lifecycle state. Draft and pending may be set
// by clients; paid is only reachable through the mark-paid endpoint and is
// terminal.
type InvoiceStatus string

const (
	StatusDraft   InvoiceStatus = "draft"
	StatusPending InvoiceStatus = "pending"
	StatusPaid    InvoiceStatus = "paid"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusPaid:
		return true
	}
	return false
}

// PaymentTerms is the number of days between the invoice date and its due
// date, restricted to the net-1/7/14/30 set.
type PaymentTerms int

const (
	Net1  PaymentTerms = 1
	Net7  PaymentTerms = 7
	Net14 PaymentTerms = 14
	Net30 PaymentTerms = 30
)

func (t PaymentTerms) Valid() bool {
	switch t {
	case Net1, Net7, Net14, Net30:
		return true
	}
	return false
}

func (t PaymentTerms) Days() int { return int(t) }

type LineItem struct {
	Name     string          `json:"name"`
	Quantity int64           `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// Address is a postal address stored as a single JSON column. All fields are
// optional.
type Address struct {
	Street   string `json:"street"`
	City     string `json:"city"`
	PostCode string `json:"postCode"`
	Country  string `json:"country"`
}

func (a Address) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *Address) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	}
	return errors.New("cannot scan address: unsupported column type")
}

func (Address) GormDataType() string {
	return "json"
}

// Invoice is the billing record. The JSON tags are the wire contract; nil
// pointers serialize as null for fields that are optional while an invoice is
// a draft. The gorm-managed CreatedAt/UpdatedAt row timestamps are kept off
// the wire, and created_at orders the list endpoint.
type Invoice struct {
	ID            string                        `gorm:"primaryKey;size:6" json:"id"`
	ClientName    *string                       `gorm:"size:100" json:"clientName"`
	ClientEmail   *string                       `gorm:"size:254" json:"clientEmail"`
	PaymentTerms  *PaymentTerms                 `json:"paymentTerms"`
	IssuedAt      *Date                         `gorm:"column:issued_at" json:"createdAt"`
	PaymentDue    *Date                         `json:"paymentDue"`
	Items         datatypes.JSONSlice[LineItem] `json:"items"`
	Status        InvoiceStatus                 `gorm:"size:10;not null" json:"status"`
	Total         decimal.Decimal               `gorm:"type:decimal(10,2)" json:"total"`
	SenderAddress *Address                      `gorm:"type:json" json:"senderAddress"`
	ClientAddress *Address                      `gorm:"type:json" json:"clientAddress"`
	Description   *string                       `gorm:"size:1000" json:"description"`
	CreatedAt     time.Time                     `json:"-"`
	UpdatedAt     time.Time                     `json:"-"`
}

// DueDate computes when an invoice falls due: the invoice date plus the
// payment terms, in calendar days.
func DueDate(issued Date, terms PaymentTerms) Date {
	return issued.AddDays(terms.Days())
}

// ItemsTotal sums quantity times price over all line items. An empty or nil
// item list totals zero.
func ItemsTotal(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(item.Quantity)))
	}
	return total
}
