package cmd

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/frahmantamala/onboarding-portal/internal"
	"github.com/frahmantamala/onboarding-portal/internal/auth"
	candidateDatamodel "github.com/frahmantamala/onboarding-portal/internal/core/datamodel/candidate"
	userDatamodel "github.com/frahmantamala/onboarding-portal/internal/core/datamodel/user"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const seedPassword = "password"

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with an HR account and a sample candidate for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		gormDB, err := initGorm(db)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			if err := clearSeedData(gormDB); err != nil {
				log.Fatalf("failed to clear data: %v", err)
			}
			fmt.Println("Cleared existing onboarding data")
		}

		hash, err := auth.NewBcryptHasher(cfg.Security.BCryptCost).Hash(seedPassword)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}

		hr := &userDatamodel.User{
			Email:        "hr@example.com",
			FullName:     "Priya HR",
			PasswordHash: hash,
			Role:         string(internal.RoleHR),
			IsActive:     true,
		}
		created, err := seedUser(gormDB, hr)
		if err != nil {
			log.Fatalf("failed to seed hr user: %v", err)
		}
		if created {
			fmt.Println("Seeded hr user:", hr.Email)
		} else {
			fmt.Println("hr user already exists:", hr.Email)
		}

		c := &candidateDatamodel.Candidate{
			FullName:             "Rahul Sharma",
			Email:                "rahul.sharma@example.com",
			Phone:                "+91 98765 43210",
			Position:             "Software Engineer",
			Department:           "Engineering",
			OfferStatus:          "OFFERED",
			AcceptToken:          uuid.NewString(),
			AcceptTokenExpiresAt: time.Now().UTC().Add(cfg.Onboarding.OfferTokenTTL),
			CreatedBy:            hr.ID,
		}
		created, err = seedCandidate(gormDB, c)
		if err != nil {
			log.Fatalf("failed to seed candidate: %v", err)
		}
		if created {
			fmt.Printf("Seeded candidate %s; offer link: %s/accept-offer/%s\n", c.Email, cfg.Onboarding.PortalURL, c.AcceptToken)
		} else {
			fmt.Println("candidate already exists:", c.Email)
		}
	},
}

// seedUser inserts u unless the email is taken; u.ID is set either way.
func seedUser(db *gorm.DB, u *userDatamodel.User) (bool, error) {
	var existing userDatamodel.User
	err := db.Where("LOWER(email) = LOWER(?)", u.Email).First(&existing).Error
	if err == nil {
		u.ID = existing.ID
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	return true, db.Create(u).Error
}

func seedCandidate(db *gorm.DB, c *candidateDatamodel.Candidate) (bool, error) {
	var existing candidateDatamodel.Candidate
	err := db.Where("LOWER(email) = LOWER(?)", c.Email).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	return true, db.Create(c).Error
}

// clearSeedData empties every onboarding table in dependency order.
func clearSeedData(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{
			"employee_documents",
			"employees",
			"onboarding_documents",
			"onboarding_submissions",
			"candidates",
			"users",
		} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})
}
