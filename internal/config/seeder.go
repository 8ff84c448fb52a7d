package config

import (
	"log"

	"maha-evoting/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db  *gorm.DB
	cfg *Config
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, cfg *Config) *Seeder {
	return &Seeder{db: db, cfg: cfg}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminVoters(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminVoters promotes the configured provider subjects to admin so
// the dashboard is reachable on a fresh deployment. The role claim in
// the provider stays the source of truth; this only pre-creates the
// mirrored records.
func (s *Seeder) seedAdminVoters() error {
	for _, subject := range s.cfg.Identity.AdminSubjects {
		var count int64
		s.db.Model(&models.Voter{}).Where("subject_id = ?", subject).Count(&count)
		if count > 0 {
			s.db.Model(&models.Voter{}).
				Where("subject_id = ?", subject).
				Update("role", "admin")
			continue
		}

		admin := &models.Voter{
			SubjectID: subject,
			Role:      "admin",
		}
		if err := s.db.Create(admin).Error; err != nil {
			return err
		}
		log.Printf("✅ Admin voter record created for subject %s", subject)
	}

	return nil
}
