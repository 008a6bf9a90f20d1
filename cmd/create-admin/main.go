// Command-line tool that creates an HR account with a random password and prints its credentials.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"

	"gorm.io/gorm"

	"ats-backend/internal/config"
	"ats-backend/internal/database"
	"ats-backend/internal/model"
	"ats-backend/internal/utilities"
)

// generateRandomString creates a random hex string of length 2n
func generateRandomString(n int) string {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		log.Fatal(err)
	}
	return hex.EncodeToString(bytes)
}

// generateUniqueEmail tries until an unused admin address is found
func generateUniqueEmail(db *gorm.DB, domain string) (string, error) {
	for {
		email := fmt.Sprintf("admin_%s@%s", generateRandomString(4), domain)
		var count int64
		if err := db.Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return email, nil
		}
	}
}

func main() {
	domain := flag.String("domain", "ats.local", "mail domain of the generated account")
	flag.Parse()

	cfg, err := config.LoadDatabase()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.GetMainDB(cfg)
	if err != nil {
		log.Fatalf("Database failed to initialize: %v", err)
	}
	defer db.Close()

	email, err := generateUniqueEmail(db.DB, *domain)
	if err != nil {
		log.Fatal("failed to pick an email: ", err)
	}
	password := generateRandomString(8)

	admin, err := utilities.CreateAdmin(email, password, db.DB)
	if err != nil {
		log.Fatal(err)
	}

	// Print credentials (only show plain password here!)
	fmt.Println("Admin credentials generated successfully!")
	fmt.Println("======================================")
	fmt.Printf("Email:    %s\n", admin.Email)
	fmt.Printf("Password: %s\n", password)
	fmt.Println("======================================")

	os.Exit(0)
}
