// Package edureg declares the lifecycle components of the accreditation
// registry and the statistics they report. Implementations live in
// internal/io* packages.
package edureg

import (
	"context"
	"time"

	"github.com/eduregistry/edureg/pkg/record"
)

// SchemaManager defines the interface for database schema management.
// It uses GORM AutoMigrate to handle both initial schema creation and
// migrations. Schema management is idempotent - safe to run multiple times.
type SchemaManager interface {
	// Create creates the database schema using GORM AutoMigrate.
	// Dropping existing tables is the caller's decision.
	Create(ctx context.Context) error

	// Migrate updates the database schema to the latest version.
	Migrate(ctx context.Context) error
}

// Parser reads accreditation certificates from XML files.
type Parser interface {
	// Parse reads all *.xml files of a directory and returns one record per
	// certificate that has an organization with OGRN. Per-file problems are
	// logged and counted, they do not fail the whole run.
	Parse(ctx context.Context, dir string) ([]record.Organization, ParseStats, error)
}

// Populator upserts organization records into the registry.
type Populator interface {
	// Populate resolves or creates regions, organizations, parent links
	// and program links for the records inside one transaction.
	Populate(ctx context.Context, recs []record.Organization) (PopulateStats, error)
}

// Fetcher downloads published XML files into the cache directory.
type Fetcher interface {
	// Fetch replaces the content of the cache directory with files from the
	// source URL and returns paths of saved XML files.
	Fetch(ctx context.Context) ([]string, error)
}

// Optimizer performs store maintenance after large ingestion runs.
type Optimizer interface {
	// Optimize reclaims free space and refreshes query planner
	// statistics.
	Optimize(ctx context.Context) error
}

// Updater runs the whole ingestion: optional fetch, parse and populate.
type Updater interface {
	Update(ctx context.Context, fetch bool) (UpdateStats, error)
}

// ParseStats summarizes a parsing run.
type ParseStats struct {
	// Files is the number of XML files found.
	Files int

	// FailedFiles is the number of files dropped because of errors.
	FailedFiles int

	// Certificates is the number of Certificate elements seen in files
	// that were parsed successfully.
	Certificates int

	// NoOrganization counts certificates without ActualEducationOrganization.
	NoOrganization int

	// NoOGRN counts organizations skipped because OGRN is empty.
	NoOGRN int

	// Invalid counts records kept despite validation warnings.
	Invalid int

	// Records is the number of returned records.
	Records int
}

// PopulateStats summarizes a populate run.
type PopulateStats struct {
	Records int

	// NoOGRN counts records rejected because OGRN is empty.
	NoOGRN int

	// OrgsCreated counts new organizations.
	OrgsCreated int

	// OrgsFound counts records resolved to existing organizations, either
	// by OGRN or by INN.
	OrgsFound int

	// OrgsUpdated counts existing organizations refreshed from records.
	OrgsUpdated int

	// OrgsDuplicate counts records repeating an OGRN seen earlier in the
	// same run.
	OrgsDuplicate int

	RegionsCreated int

	// NoRegion counts organizations stored without a region.
	NoRegion int

	ParentsLinked  int
	ParentsRefused int

	// ParentsMissing counts branches whose head organization is unknown.
	ParentsMissing int

	ProgramsLinked       int
	SpecialtiesCreated   int
	SpecialtiesUnknown   int
	SpecialtyGroupsAdded int

	Duration time.Duration
}

// UpdateStats combines statistics of the ingestion stages.
type UpdateStats struct {
	Fetched  int
	Parse    ParseStats
	Populate PopulateStats
	Duration time.Duration
}
