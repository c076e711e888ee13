package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/sanoh-inlab/labelgo/internal/config"
	"github.com/sanoh-inlab/labelgo/internal/database"
	"github.com/sanoh-inlab/labelgo/internal/models"
	"github.com/sanoh-inlab/labelgo/internal/utils"
	"gorm.io/gorm/clause"
)

func main() {
	username := flag.String("username", "", "login name")
	password := flag.String("password", "", "password (bcrypt hashed before storing)")
	role := flag.String("role", "operator", "operator or admin")
	name := flag.String("name", "", "display name")
	flag.Parse()

	if *username == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	fmt.Println("🌱 Local operator seeder")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	hash, err := utils.HashPassword(*password)
	if err != nil {
		log.Fatalf("❌ Failed to hash password: %v", err)
	}

	user := models.UserAuth{
		Username: *username,
		Password: hash,
		Name:     *name,
		Role:     *role,
		IsActive: true,
	}
	// Re-running the seeder resets the password and role
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{"password", "role", "name", "is_active", "updated_at"}),
	}).Create(&user).Error
	if err != nil {
		log.Fatalf("❌ Failed to save user: %v", err)
	}

	fmt.Printf("✅ User %s (%s) ready\n", *username, *role)
}
