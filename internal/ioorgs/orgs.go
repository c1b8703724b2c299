// Package ioorgs administers educational organizations outside of the
// ingestion run. OGRN and INN stay unique, a region has to exist and a
// head organization is assigned only within the one level hierarchy.
package ioorgs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/eduregistry/edureg/internal/iostore"
	"github.com/eduregistry/edureg/pkg/db"
	"github.com/eduregistry/edureg/pkg/record"
	"github.com/eduregistry/edureg/pkg/schema"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Fields are the values of an organization an administrator can set.
// Zero RegionID means no region, zero ParentID means a head organization.
type Fields struct {
	FullName  string `validate:"required"`
	ShortName string
	OGRN      string `validate:"required,numeric,len=13|len=15"`
	INN       string `validate:"omitempty,numeric,len=10|len=12"`
	KPP       string `validate:"omitempty,numeric,len=9"`
	Address   string
	RegionID  uint
	ParentID  uint
}

// FieldsOf returns the administered fields of a stored organization.
func FieldsOf(org *schema.EducationalOrganization) Fields {
	res := Fields{
		FullName:  org.FullName,
		ShortName: org.ShortName,
		OGRN:      schema.Value(org.OGRN),
		INN:       schema.Value(org.INN),
		KPP:       org.KPP,
		Address:   org.Address,
	}
	if org.RegionID != nil {
		res.RegionID = *org.RegionID
	}
	if org.ParentID != nil {
		res.ParentID = *org.ParentID
	}
	return res
}

// Manager changes organizations, every change runs in its own
// transaction.
type Manager struct {
	sessions *iostore.Sessions
}

// New creates a Manager on a connected operator.
func New(op db.Operator) *Manager {
	return &Manager{sessions: iostore.NewSessions(op)}
}

// Add creates an organization.
func (m *Manager) Add(
	ctx context.Context,
	f Fields,
) (*schema.EducationalOrganization, error) {
	org := &schema.EducationalOrganization{}
	err := m.sessions.Scope(ctx, func(tx *gorm.DB) error {
		if err := check(tx, org, &f); err != nil {
			return err
		}
		apply(org, &f)
		if err := tx.Omit(clause.Associations).Create(org).Error; err != nil {
			return QueryError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Organization added", "id", org.ID, "ogrn", f.OGRN)
	return org, nil
}

// Edit loads an organization, lets change modify its fields and stores
// the result. The OGRN uniqueness check skips the organization itself.
func (m *Manager) Edit(
	ctx context.Context,
	id uint,
	change func(*Fields),
) (*schema.EducationalOrganization, error) {
	var org schema.EducationalOrganization
	err := m.sessions.Scope(ctx, func(tx *gorm.DB) error {
		if err := take(tx, id, &org); err != nil {
			return err
		}

		f := FieldsOf(&org)
		change(&f)
		if err := check(tx, &org, &f); err != nil {
			return err
		}
		apply(&org, &f)
		if err := tx.Omit(clause.Associations).Save(&org).Error; err != nil {
			return QueryError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Organization updated", "id", org.ID, "ogrn", schema.Value(org.OGRN))
	return &org, nil
}

// Delete removes an organization with its programs. Its branches become
// head organizations.
func (m *Manager) Delete(
	ctx context.Context,
	id uint,
) (*schema.EducationalOrganization, error) {
	var (
		org      schema.EducationalOrganization
		branches int64
		programs int64
	)
	err := m.sessions.Scope(ctx, func(tx *gorm.DB) error {
		if err := take(tx, id, &org); err != nil {
			return err
		}

		res := tx.Model(&schema.EducationalOrganization{}).
			Where("parent_id = ?", id).
			Update("parent_id", nil)
		if res.Error != nil {
			return QueryError(res.Error)
		}
		branches = res.RowsAffected

		res = tx.Where("organization_id = ?", id).
			Delete(&schema.EducationalProgram{})
		if res.Error != nil {
			return QueryError(res.Error)
		}
		programs = res.RowsAffected

		if err := tx.Delete(&org).Error; err != nil {
			return QueryError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Organization deleted",
		"id", id,
		"ogrn", schema.Value(org.OGRN),
		"branches_detached", branches,
		"programs_deleted", programs,
	)
	return &org, nil
}

// check normalizes f and verifies it against the registry. org is the
// organization being changed, a new one has zero ID.
func check(
	tx *gorm.DB,
	org *schema.EducationalOrganization,
	f *Fields,
) error {
	f.FullName = strings.TrimSpace(f.FullName)
	f.ShortName = strings.TrimSpace(f.ShortName)
	f.OGRN = strings.TrimSpace(f.OGRN)
	f.INN = strings.TrimSpace(f.INN)
	f.KPP = strings.TrimSpace(f.KPP)
	f.Address = strings.TrimSpace(f.Address)

	if err := validate(f); err != nil {
		return err
	}

	if err := unique(tx, org.ID, "ogrn", f.OGRN); err != nil {
		return err
	}
	if err := unique(tx, org.ID, "inn", f.INN); err != nil {
		return err
	}

	if f.RegionID != 0 {
		err := tx.Take(&schema.Region{}, f.RegionID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RegionNotFoundError(f.RegionID)
		}
		if err != nil {
			return QueryError(err)
		}
	}

	if f.ParentID == 0 {
		return nil
	}
	var parent schema.EducationalOrganization
	if err := take(tx, f.ParentID, &parent); err != nil {
		return err
	}
	reason, err := iostore.ParentRefusal(tx, org, &parent)
	if err != nil {
		return QueryError(err)
	}
	if reason != "" {
		return ParentError(f.ParentID, reason)
	}
	return nil
}

func validate(f *Fields) error {
	err := record.Validate.Struct(f)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return InvalidError([]string{err.Error()})
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems,
			fmt.Sprintf("%s value '%v' fails '%s'", fe.Field(), fe.Value(), fe.Tag()))
	}
	return InvalidError(problems)
}

// unique fails when another organization has value in column. Empty
// values are stored as NULL and never collide.
func unique(tx *gorm.DB, id uint, column, value string) error {
	if value == "" {
		return nil
	}

	var other schema.EducationalOrganization
	err := tx.Where(map[string]any{column: value}).
		Where("id <> ?", id).
		Take(&other).Error
	if err == nil {
		return ExistsError(column, value, other.ID)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return QueryError(err)
	}
	return nil
}

func apply(org *schema.EducationalOrganization, f *Fields) {
	org.UUID = schema.OrganizationUUID(f.OGRN)
	org.FullName = f.FullName
	org.ShortName = f.ShortName
	org.OGRN = schema.NullString(f.OGRN)
	org.INN = schema.NullString(f.INN)
	org.KPP = f.KPP
	org.Address = f.Address
	org.RegionID = nil
	if f.RegionID != 0 {
		org.RegionID = &f.RegionID
	}
	org.ParentID = nil
	if f.ParentID != 0 {
		org.ParentID = &f.ParentID
	}
}

func take(tx *gorm.DB, id uint, org *schema.EducationalOrganization) error {
	err := tx.Take(org, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFoundError(id)
	}
	if err != nil {
		return QueryError(err)
	}
	return nil
}
