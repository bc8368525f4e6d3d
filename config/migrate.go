package config

import (
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"conference-api/models"
)

// MigrateDB creates or updates the schema and seeds the fixed rows the
// application expects (visitor counter row, default admin account).
func MigrateDB() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Registration{},
		&models.PaperAssignment{},
		&models.PaperReview{},
		&models.PaperStatusHistory{},
		&models.SupportTicket{},
		&models.EmailOutbox{},
		&models.VisitorCounter{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	ensureVisitorRow(DB)
	seedAdmin(DB)

	log.Println("Database schema migrated successfully")
}

func ensureVisitorRow(db *gorm.DB) {
	var count int64
	if err := db.Model(&models.VisitorCounter{}).Where("id = ?", 1).Count(&count).Error; err != nil {
		log.Printf("Warning: visitor counter check failed: %v", err)
		return
	}
	if count > 0 {
		return
	}
	if err := db.Create(&models.VisitorCounter{ID: 1, Count: 0}).Error; err != nil {
		log.Printf("Warning: visitor counter init failed: %v", err)
	}
}

// seedAdmin creates the default admin account on first boot. Credentials come
// from ADMIN_EMAIL/ADMIN_PASSWORD; nothing is seeded when they are unset.
func seedAdmin(db *gorm.DB) {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		return
	}

	var existing int64
	if err := db.Model(&models.User{}).Where("email = ?", adminEmail).Count(&existing).Error; err != nil {
		log.Printf("Warning: admin seed check failed: %v", err)
		return
	}
	if existing > 0 {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Warning: admin password hash failed: %v", err)
		return
	}

	password := string(hashed)
	admin := models.User{
		Name:     "Conference Admin",
		Email:    adminEmail,
		Password: &password,
		Role:     models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("Warning: admin seed failed: %v", err)
		return
	}
	log.Printf("Default admin user created: %s", adminEmail)
}
