package main

import (
	"log"
	"os"

	"validade-backend/internal/model"
	"validade-backend/pkg/database"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	// 2. Setup Database
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "data/validade.db"
	}
	db := database.ConnectDB(dbPath)

	// 3. Find the paired device
	var device model.Device
	if err := db.First(&device).Error; err != nil {
		log.Fatalf("❌ No paired device found in database: %v", err)
	}

	// 4. Hash new PIN
	newPIN := os.Getenv("DEVICE_PIN")
	if newPIN == "" {
		newPIN = "0000"
	}
	hashedPIN, err := bcrypt.GenerateFromPassword([]byte(newPIN), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("❌ Failed to hash PIN: %v", err)
	}

	// 5. Update
	if err := db.Model(&device).Update("pin_hash", string(hashedPIN)).Error; err != nil {
		log.Fatalf("❌ Failed to update PIN in DB: %v", err)
	}

	log.Printf("✅ Success! Pairing PIN has been reset to: %s", newPIN)
}
