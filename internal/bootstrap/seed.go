package bootstrap

import (
	"log"

	"github.com/densitymap/densitymap/internal/model"
	"github.com/densitymap/densitymap/pkg/hash"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Vote{},
		&model.CellTally{},
		&model.DailyPoint{},
		&model.Request{},
	)
}

// SeedDemoUser creates a known login for local development.
func SeedDemoUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.User{}).
		Where("username = ?", "demo").
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Demo user already exists, skipping seed")
		return nil
	}

	salt, err := hash.NewSalt()
	if err != nil {
		return err
	}

	demoUser := model.User{
		Username:     "demo",
		PasswordHash: hash.Password("demo1234", salt),
		Salt:         salt,
	}

	if err := db.Create(&demoUser).Error; err != nil {
		return err
	}

	log.Println("✅ Demo user seeded successfully")
	log.Println("   Username: demo")
	log.Println("   Password: demo1234")

	return nil
}
