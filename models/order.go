package models

import (
	"fmt"
	"time"
)

// OrderStatus is a step of the paint workflow.
type OrderStatus string

const (
	StatusWaiting  OrderStatus = "Waiting"
	StatusMixing   OrderStatus = "Mixing"
	StatusSpraying OrderStatus = "Spraying"
	StatusReMixing OrderStatus = "Re-Mixing"
	StatusReady    OrderStatus = "Ready"
	StatusComplete OrderStatus = "Complete"
)

// AllStatuses lists the workflow states in their nominal order.
var AllStatuses = []OrderStatus{
	StatusWaiting,
	StatusMixing,
	StatusSpraying,
	StatusReMixing,
	StatusReady,
	StatusComplete,
}

func (s OrderStatus) Valid() bool {
	for _, st := range AllStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// Active reports whether an order in this status is still queued for work.
func (s OrderStatus) Active() bool {
	return s != StatusReady && s != StatusComplete
}

// IsWorkStatus reports whether entering this status needs an employee.
func (s OrderStatus) IsWorkStatus() bool {
	return s == StatusMixing || s == StatusSpraying || s == StatusReMixing
}

// Category is the job type. It drives the default colour code and the ETC weighting.
type Category string

const (
	CategoryNewMix     Category = "New Mix"
	CategoryReorderMix Category = "Reorder Mix"
	CategoryColourCode Category = "Colour Code"
)

var AllCategories = []Category{CategoryNewMix, CategoryReorderMix, CategoryColourCode}

func (c Category) Valid() bool {
	for _, cat := range AllCategories {
		if c == cat {
			return true
		}
	}
	return false
}

// BaseMinutes is the fixed processing time of one job of this category.
// Unknown categories weigh nothing.
func (c Category) BaseMinutes() int {
	switch c {
	case CategoryNewMix:
		return 120
	case CategoryReorderMix:
		return 30
	case CategoryColourCode:
		return 60
	}
	return 0
}

// OrderType records how the order was placed.
type OrderType string

const (
	OrderTypeWalkIn     OrderType = "Walk-in"
	OrderTypePhoneOrder OrderType = "Phone Order"
	OrderTypePaid       OrderType = "Paid"
)

var AllOrderTypes = []OrderType{OrderTypeWalkIn, OrderTypePhoneOrder, OrderTypePaid}

func (t OrderType) Valid() bool {
	for _, ot := range AllOrderTypes {
		if t == ot {
			return true
		}
	}
	return false
}

// PaintQuantities are the volume labels offered on the add-order form.
var PaintQuantities = []string{"250ml", "500ml", "1L", "2L", "4L", "5L", "10L", "20L"}

func ValidPaintQuantity(q string) bool {
	for _, v := range PaintQuantities {
		if v == q {
			return true
		}
	}
	return false
}

const (
	ColourCodePending = "Pending"
	ColourCodeNA      = "N/A"
	Unassigned        = "Unassigned"
)

type Order struct {
	TransactionID    string      `gorm:"primaryKey;type:varchar(20)" json:"transaction_id"`
	CustomerName     string      `gorm:"type:varchar(255);not null" json:"customer_name"`
	ClientContact    string      `gorm:"type:varchar(10);not null" json:"client_contact"`
	PaintType        string      `gorm:"type:varchar(255);not null" json:"paint_type"`
	Category         Category    `gorm:"type:varchar(20);not null" json:"category"`
	ColourCode       string      `gorm:"type:varchar(50);not null;default:'N/A'" json:"colour_code"`
	PaintQuantity    string      `gorm:"type:varchar(10)" json:"paint_quantity"`
	OrderType        OrderType   `gorm:"type:varchar(20)" json:"order_type"`
	CurrentStatus    OrderStatus `gorm:"type:varchar(20);not null;default:'Waiting';index" json:"current_status"`
	AssignedEmployee string      `gorm:"type:varchar(255);not null;default:'Unassigned'" json:"assigned_employee"`
	StartTime        time.Time   `gorm:"not null" json:"start_time"`
	CreatedAt        time.Time   `json:"-"`
	UpdatedAt        time.Time   `json:"-"`
}

// TrackID is the customer-facing tracking reference printed on the receipt.
func (o *Order) TrackID() string {
	return fmt.Sprintf("TRK-%s", o.TransactionID)
}

// ColourCodeKnown reports whether a concrete colour code has been assigned.
func (o *Order) ColourCodeKnown() bool {
	return o.ColourCode != "" && o.ColourCode != ColourCodePending
}

// NewOrder is the body sent to the Order Store on creation: an order minus
// the fields the store assigns itself.
type NewOrder struct {
	TransactionID string      `json:"transaction_id"`
	CustomerName  string      `json:"customer_name"`
	ClientContact string      `json:"client_contact"`
	PaintType     string      `json:"paint_type"`
	Category      Category    `json:"category"`
	ColourCode    string      `json:"colour_code"`
	PaintQuantity string      `json:"paint_quantity"`
	OrderType     OrderType   `json:"order_type"`
	CurrentStatus OrderStatus `json:"current_status"`
	StartTime     time.Time   `json:"start_time"`
}

func (n NewOrder) ToOrder() Order {
	return Order{
		TransactionID:    n.TransactionID,
		CustomerName:     n.CustomerName,
		ClientContact:    n.ClientContact,
		PaintType:        n.PaintType,
		Category:         n.Category,
		ColourCode:       n.ColourCode,
		PaintQuantity:    n.PaintQuantity,
		OrderType:        n.OrderType,
		CurrentStatus:    n.CurrentStatus,
		AssignedEmployee: Unassigned,
		StartTime:        n.StartTime,
	}
}
