package models

import "time"

// ClientContact remembers the last contact number used for a customer so
// the add-order form can offer it again.
type ClientContact struct {
	ID            uint      `gorm:"primaryKey" json:"-"`
	CustomerName  string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"customer_name"`
	ClientContact string    `gorm:"type:varchar(10);not null" json:"client_contact"`
	UpdatedAt     time.Time `json:"updated_at"`
}
