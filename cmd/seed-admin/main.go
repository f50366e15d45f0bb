// One-shot setup command creating the initial super admin account.
// cmd/seed-admin/main.go
package main

import (
	"flag"
	"journal-portal-api/config"
	"journal-portal-api/models"
	"journal-portal-api/utils"
	"log"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	email := flag.String("email", "", "super admin email")
	password := flag.String("password", "", "super admin password")
	name := flag.String("name", "Portal Admin", "display name")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("Usage: seed-admin -email <email> -password <password> [-name <name>]")
	}
	if ok, reason := utils.ValidatePassword(*password); !ok {
		log.Fatal(reason)
	}

	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize database
	config.InitDB()

	var existing models.User
	if err := config.DB.Where("email = ? AND delete_at IS NULL", *email).First(&existing).Error; err == nil {
		log.Fatalf("User %s already exists", *email)
	}

	hashed, err := utils.HashPassword(*password)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	now := time.Now()
	admin := models.User{
		UserFname: *name,
		Email:     *email,
		Password:  hashed,
		RoleID:    models.RoleSuperAdminID,
		CreateAt:  &now,
		UpdateAt:  &now,
	}

	if err := config.DB.Create(&admin).Error; err != nil {
		log.Fatal("Failed to create super admin:", err)
	}

	log.Printf("Super admin %s created (user_id=%d)\n", admin.Email, admin.UserID)
}
