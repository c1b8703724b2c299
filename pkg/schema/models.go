// Package schema provides database schema models for the accreditation
// registry. Models carry GORM tags and are created or updated by
// AutoMigrate.
package schema

import (
	"time"

	"github.com/gnames/gnuuid"
)

// Region is a federal subject of Russia.
type Region struct {
	ID uint `gorm:"primaryKey"`

	// Name is the normalized region name. Normalization rules live in
	// pkg/region.
	Name string `gorm:"type:varchar(200);not null;uniqueIndex"`
}

// SpecialtyGroup is an enlarged group of specialties (UGS).
type SpecialtyGroup struct {
	ID uint `gorm:"primaryKey"`

	// Code is the group code, for example "09.00.00".
	Code string `gorm:"type:varchar(20);not null;uniqueIndex"`

	// Name is the human readable group title.
	Name string `gorm:"type:varchar(255)"`
}

// Specialty is an entry of the specialty taxonomy.
type Specialty struct {
	ID uint `gorm:"primaryKey"`

	// Code is the specialty code, for example "09.03.01".
	Code string `gorm:"type:varchar(20);not null;uniqueIndex"`

	Name string `gorm:"type:varchar(500)"`

	// GroupID refers to the SpecialtyGroup the specialty belongs to.
	GroupID uint            `gorm:"not null;index"`
	Group   *SpecialtyGroup `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// EducationalOrganization is an accredited organization taken from the
// ActualEducationOrganization element of a certificate.
type EducationalOrganization struct {
	ID uint `gorm:"primaryKey"`

	// UUID is UUID v5 generated from OGRN. It stays the same across
	// database rebuilds.
	UUID string `gorm:"column:uuid;type:varchar(36);index"`

	FullName  string `gorm:"type:text;not null"`
	ShortName string `gorm:"type:text"`

	// OGRN is the primary state registration number, the natural key of
	// an organization. Absent values are stored as NULL. The source feed
	// is not always clean, so key and code columns are wider than the
	// registry formats and their syntax is only checked by the parser.
	OGRN *string `gorm:"column:ogrn;type:varchar(255);uniqueIndex"`

	// INN is the taxpayer identification number. Absent values are stored
	// as NULL, so many organizations without INN can coexist.
	INN *string `gorm:"column:inn;type:varchar(255);uniqueIndex"`

	KPP string `gorm:"column:kpp;type:varchar(255);index"`

	Address  string `gorm:"type:text"`
	Phone    string `gorm:"type:text"`
	Fax      string `gorm:"type:text"`
	Email    string `gorm:"type:text"`
	Website  string `gorm:"type:text"`
	HeadPost string `gorm:"type:text"`
	HeadName string `gorm:"type:text"`

	FormName string `gorm:"type:text"`
	FormCode string `gorm:"type:varchar(255)"`
	KindName string `gorm:"type:text"`
	KindCode string `gorm:"type:varchar(255)"`
	TypeName string `gorm:"type:text"`
	TypeCode string `gorm:"type:varchar(255)"`

	// RegionCode is the region code as given by the certificate.
	RegionCode string `gorm:"type:varchar(255)"`

	// RegionID is nil when no region could be determined.
	RegionID *uint   `gorm:"index"`
	Region   *Region `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`

	FederalDistrictCode      string `gorm:"type:varchar(255)"`
	FederalDistrictShortName string `gorm:"type:varchar(255)"`
	FederalDistrictName      string `gorm:"type:text"`

	// SourceID is the organization Id used by the source feed.
	SourceID string `gorm:"type:varchar(255);index"`

	// ParentID points to the head organization of a branch.
	ParentID *uint                    `gorm:"index"`
	Parent   *EducationalOrganization `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EducationalProgram links an organization to a specialty it is
// accredited for.
type EducationalProgram struct {
	ID uint `gorm:"primaryKey"`

	OrganizationID uint                     `gorm:"not null;uniqueIndex:idx_programs_org_specialty"`
	Organization   *EducationalOrganization `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	SpecialtyID uint       `gorm:"not null;uniqueIndex:idx_programs_org_specialty;index"`
	Specialty   *Specialty `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (Region) TableName() string                  { return "regions" }
func (SpecialtyGroup) TableName() string          { return "specialty_groups" }
func (Specialty) TableName() string               { return "specialties" }
func (EducationalOrganization) TableName() string { return "educational_organizations" }
func (EducationalProgram) TableName() string      { return "educational_programs" }

// OrganizationUUID generates UUID v5 for an organization from its OGRN.
func OrganizationUUID(ogrn string) string {
	return gnuuid.New(ogrn).String()
}

// NullString converts an empty string to nil. It is used for nullable
// unique columns, where an empty string would collide with other empty
// strings.
func NullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Value returns the string behind a nullable column or an empty string.
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
