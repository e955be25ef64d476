// Command admin_seed creates the administrative account and seeds the
// unlisted share catalogue. Safe to run repeatedly.
package main

import (
	"log"
	"os"

	"prequity/internal/config"
	"prequity/internal/models"
	"prequity/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	config.LoadEnv()

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set in environment")
	}

	if err := repositories.InitDB(); err != nil {
		log.Fatalf("database initialization failed: %v", err)
	}
	defer func() {
		if sqlDB, err := repositories.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Printf("failed to close database connection: %v", err)
			}
		}
	}()

	seedAdmin(adminEmail, adminPassword)
	seedShares()
}

func seedAdmin(email, password string) {
	var existing models.User
	if err := repositories.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		log.Println("admin user already exists")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("failed to hash password:", err)
	}

	admin := models.User{
		Email:    email,
		Password: string(hashedPassword),
		Name:     "Administrator",
		Role:     models.RoleAdmin,
		Status:   "active",
	}
	if err := repositories.DB.Create(&admin).Error; err != nil {
		log.Fatal("failed to create admin user:", err)
	}
	log.Println("admin account created")
}

func seedShares() {
	shareRepo := repositories.NewShareRepository(repositories.DB)
	err := shareRepo.Seed([]models.Share{
		{CompanyName: "Meridian Payments", Symbol: "MERPAY", Sector: "Fintech", PricePerShare: 462.50, LotSize: 100, AvailableLots: 40, Description: "Payment gateway operator, pre-IPO round closed 2025"},
		{CompanyName: "Kestrel Logistics", Symbol: "KESLOG", Sector: "Logistics", PricePerShare: 118.00, LotSize: 250, AvailableLots: 120, Description: "Last-mile delivery network across tier-2 cities"},
		{CompanyName: "Halcyon Biotech", Symbol: "HALBIO", Sector: "Pharma", PricePerShare: 890.00, LotSize: 50, AvailableLots: 15, Description: "Clinical-stage biotech, DRHP filed"},
		{CompanyName: "Northline Energy", Symbol: "NORENG", Sector: "Energy", PricePerShare: 233.75, LotSize: 200, AvailableLots: 75, Description: "Rooftop solar installer with utility contracts"},
	})
	if err != nil {
		log.Fatal("failed to seed share catalogue:", err)
	}
	log.Println("share catalogue seeded")
}
