package models

import "time"

// Employee is an entry of the shop's employee directory. Staff identify
// themselves with Code when picking up work.
type Employee struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	Code         string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"code"`
	EmployeeName string    `gorm:"type:varchar(255);not null" json:"employee_name"`
	CreatedAt    time.Time `json:"-"`
}
