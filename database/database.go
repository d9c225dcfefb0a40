package database

import (
	"errors"
	"fmt"

	"github.com/yeremiapane/paint-queue/config"
	"github.com/yeremiapane/paint-queue/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB opens the configured database.
func InitDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "sqlite", "":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// MigrateFrontend creates the tables owned by the front end: staff
// accounts and the client contact directory.
func MigrateFrontend(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.ClientContact{})
}

// MigrateStore creates the tables of the reference Order Store.
func MigrateStore(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{}, &models.Employee{})
}

// CreateUser stores a new account with a bcrypt-hashed password.
func CreateUser(db *gorm.DB, username, password string, role models.Role) (models.User, error) {
	if username == "" || password == "" {
		return models.User{}, errors.New("username and password are required")
	}
	if !role.Valid() {
		return models.User{}, fmt.Errorf("role must be %s or %s", models.RoleAdmin, models.RoleUser)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}
	user := models.User{Username: username, Password: string(hashed), Role: role}
	if err := db.Create(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

// SeedAdmin makes sure the configured admin account exists. It returns
// false when the account was already there or no password is configured.
func SeedAdmin(db *gorm.DB, username, password string) (bool, error) {
	if password == "" {
		return false, nil
	}
	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if _, err := CreateUser(db, username, password, models.RoleAdmin); err != nil {
		return false, err
	}
	return true, nil
}
