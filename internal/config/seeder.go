package config

import (
	"log"

	"peerpay/internal/adapters/persistence/models"
	"peerpay/internal/pkg/password"

	"gorm.io/gorm"
)

// DemoPassword is the password of every seeded demo user
const DemoPassword = "password123"

var demoUsers = []models.User{
	{Username: "alice", Email: "alice@example.com", Displayname: "Alice", Phone: "+10000000001"},
	{Username: "bob", Email: "bob@example.com", Displayname: "Bob", Phone: "+10000000002"},
	{Username: "carol", Email: "carol@example.com", Displayname: "Carol", Phone: "+10000000003"},
}

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedDemoUsers(); err != nil {
		return err
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedDemoUsers creates alice, bob and carol with a zero balance.
// Existing usernames are left untouched.
func (s *Seeder) seedDemoUsers() error {
	hashed, err := password.Hash(DemoPassword)
	if err != nil {
		return err
	}

	for _, demo := range demoUsers {
		var count int64
		if err := s.db.Model(&models.User{}).Where("username = ?", demo.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		user := demo
		user.Password = hashed
		if err := s.db.Create(&user).Error; err != nil {
			return err
		}
		log.Printf("✅ Demo user created: %s", user.Username)
	}
	return nil
}
