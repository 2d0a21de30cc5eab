package db

import (
	"dapptrack/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Structured logging
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/driver/mysql"       // MySQL driver for GORM
	"gorm.io/gorm"               // GORM ORM library
)

// Models lists every table the service owns
func Models() []any {
	return []any{&domain.DirectoryOrganization{}, &domain.Review{}, &domain.DirectorySnapshot{}, &domain.Operator{}}
}

// Open connects to MySQL
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(mysql.Open(dsn), &gorm.Config{})
}

// AutoMigrate creates tables, missing foreign keys, constraints, columns and indexes
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// SeedOperator creates the operator account if the username is free.
// An empty username or password skips seeding.
func SeedOperator(db *gorm.DB, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil // Nothing configured
	}
	var count int64
	if err := db.Model(&domain.Operator{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil // Already seeded
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost) // Hash the password
	if err != nil {
		return false, err
	}
	op := domain.Operator{Username: username, Password: string(hash), Role: domain.RoleAdmin}
	if err := db.Create(&op).Error; err != nil {
		return false, err
	}
	return true, nil
}

// Migrate performs automatic migration for the database schema and seeds the operator
func Migrate(dsn, operatorUser, operatorPass string) {
	db, err := Open(dsn) // Open a connection to the database
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err) // Log fatal error if connection fails
	}
	if err := AutoMigrate(db); err != nil {
		logrus.Fatalf("migration failed: %v", err) // Log fatal error if migration fails
	}
	seeded, err := SeedOperator(db, operatorUser, operatorPass)
	if err != nil {
		logrus.Fatalf("operator seed failed: %v", err)
	}
	if seeded {
		logrus.WithField("username", operatorUser).Info("Operator account created")
	}
	logrus.Info("Migration completed.") // Log successful migration
}
