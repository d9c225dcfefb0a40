package orderstore

import (
	"errors"
	"time"

	"github.com/yeremiapane/paint-queue/models"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("transaction id already exists")
)

// Repository persists orders and the employee directory.
type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// List returns orders in insertion order, the order the queue is worked in.
func (r *Repository) List(activeOnly bool) ([]models.Order, error) {
	q := r.DB.Order("created_at asc").Order("transaction_id asc")
	if activeOnly {
		q = q.Where("current_status NOT IN ?", []string{string(models.StatusReady), string(models.StatusComplete)})
	}
	orders := make([]models.Order, 0)
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *Repository) Get(transactionID string) (models.Order, error) {
	var order models.Order
	err := r.DB.Where("transaction_id = ?", transactionID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Order{}, ErrNotFound
	}
	return order, err
}

func (r *Repository) Create(order models.Order) (models.Order, error) {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Order{}).Where("transaction_id = ?", order.TransactionID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicate
		}
		return tx.Create(&order).Error
	})
	if err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// Apply writes the patched fields of one order and returns the stored row.
func (r *Repository) Apply(transactionID string, update models.StatusUpdate) (models.Order, error) {
	var out models.Order
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Where("transaction_id = ?", transactionID).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Model(&order).Updates(map[string]interface{}{
			"current_status":    update.CurrentStatus,
			"assigned_employee": update.AssignedEmployee,
			"colour_code":       update.ColourCode,
			"updated_at":        time.Now(),
		}).Error; err != nil {
			return err
		}
		return tx.Where("transaction_id = ?", transactionID).First(&out).Error
	})
	return out, err
}

func (r *Repository) FindEmployee(code string) (models.Employee, error) {
	var emp models.Employee
	err := r.DB.Where("code = ?", code).First(&emp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Employee{}, ErrNotFound
	}
	return emp, err
}

// Exists reports whether an unfinished order with exactly these details is
// already in the system.
func (r *Repository) Exists(customerName, contact, paintType string, category models.Category) (bool, error) {
	var count int64
	err := r.DB.Model(&models.Order{}).
		Where("customer_name = ? AND client_contact = ? AND paint_type = ? AND category = ?",
			customerName, contact, paintType, category).
		Where("current_status <> ?", models.StatusComplete).
		Count(&count).Error
	return count > 0, err
}

// SeedEmployees inserts any employee whose code is not on file yet.
func (r *Repository) SeedEmployees(employees []models.Employee) error {
	for _, e := range employees {
		var count int64
		if err := r.DB.Model(&models.Employee{}).Where("code = ?", e.Code).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := r.DB.Create(&e).Error; err != nil {
			return err
		}
	}
	return nil
}

// DefaultEmployees is the directory a fresh store starts with.
var DefaultEmployees = []models.Employee{
	{Code: "EMP001", EmployeeName: "Thabo Nkosi"},
	{Code: "EMP002", EmployeeName: "Lerato Dlamini"},
	{Code: "EMP003", EmployeeName: "Sipho Mokoena"},
	{Code: "EMP004", EmployeeName: "Anele Khumalo"},
}
