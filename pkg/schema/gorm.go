package schema

import (
	"gorm.io/gorm"
)

// AllModels returns all schema models for GORM AutoMigrate.
// Referenced tables go first.
func AllModels() []any {
	return []any{
		&Region{},
		&SpecialtyGroup{},
		&Specialty{},
		&EducationalOrganization{},
		&EducationalProgram{},
	}
}

// TableNames returns table names of all models in creation order.
func TableNames() []string {
	return []string{
		Region{}.TableName(),
		SpecialtyGroup{}.TableName(),
		Specialty{}.TableName(),
		EducationalOrganization{}.TableName(),
		EducationalProgram{}.TableName(),
	}
}

// Migrate runs GORM AutoMigrate to create or update schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
