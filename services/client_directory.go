package services

import (
	"context"
	"strings"
	"time"

	"github.com/yeremiapane/paint-queue/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ClientDirectory remembers contact numbers per customer for form autofill.
type ClientDirectory interface {
	Remember(ctx context.Context, customerName, contact string) error
	Suggest(ctx context.Context, namePrefix string, limit int) ([]models.ClientContact, error)
}

type GormClientDirectory struct {
	DB *gorm.DB
}

func NewGormClientDirectory(db *gorm.DB) *GormClientDirectory {
	return &GormClientDirectory{DB: db}
}

func (d *GormClientDirectory) Remember(ctx context.Context, customerName, contact string) error {
	name := strings.TrimSpace(customerName)
	if name == "" || contact == "" {
		return nil
	}
	entry := models.ClientContact{
		CustomerName:  name,
		ClientContact: contact,
		UpdatedAt:     time.Now(),
	}
	return d.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "customer_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"client_contact", "updated_at"}),
	}).Create(&entry).Error
}

func (d *GormClientDirectory) Suggest(ctx context.Context, namePrefix string, limit int) ([]models.ClientContact, error) {
	if limit <= 0 {
		limit = 10
	}
	var out []models.ClientContact
	err := d.DB.WithContext(ctx).
		Where("customer_name LIKE ?", strings.TrimSpace(namePrefix)+"%").
		Order("updated_at desc").
		Limit(limit).
		Find(&out).Error
	return out, err
}
