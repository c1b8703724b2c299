package iostore

import (
	"errors"
	"fmt"

	"github.com/eduregistry/edureg/pkg/schema"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FindOrCreate looks up one row of T whose columns equal all values of
// filter. When the row exists it is returned with created set to false
// and nothing is modified. Otherwise build constructs a new row, it is
// inserted at once so its ID is available within tx, and it is returned
// with created set to true.
//
// FindOrCreate must run inside a transaction, the insert is not
// committed here. Two transactions creating the same key concurrently
// are not coordinated, the unique index of the table rejects the second
// one.
func FindOrCreate[T any](
	tx *gorm.DB,
	filter map[string]any,
	build func() *T,
) (*T, bool, error) {
	entity := entityName[T]()
	if len(filter) == 0 {
		return nil, false, FindOrCreateError(entity, filter,
			errors.New("empty filter"))
	}

	var row T
	err := tx.Where(filter).Take(&row).Error
	if err == nil {
		return &row, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, FindOrCreateError(entity, filter, err)
	}

	res := build()
	if err = tx.Omit(clause.Associations).Create(res).Error; err != nil {
		return nil, false, FindOrCreateError(entity, filter, err)
	}
	return res, true, nil
}

// FindOrCreateRegion returns the region with the given name. The name is
// expected to be normalized already.
func FindOrCreateRegion(
	tx *gorm.DB,
	name string,
) (*schema.Region, bool, error) {
	return FindOrCreate(tx,
		map[string]any{"name": name},
		func() *schema.Region {
			return &schema.Region{Name: name}
		},
	)
}

// FindOrCreateSpecialtyGroup returns the specialty group with the given
// code. The name is used only when the group is created.
func FindOrCreateSpecialtyGroup(
	tx *gorm.DB,
	code, name string,
) (*schema.SpecialtyGroup, bool, error) {
	return FindOrCreate(tx,
		map[string]any{"code": code},
		func() *schema.SpecialtyGroup {
			return &schema.SpecialtyGroup{Code: code, Name: name}
		},
	)
}

// FindOrCreateSpecialty returns the specialty with the given code. Name
// and group are used only when the specialty is created.
func FindOrCreateSpecialty(
	tx *gorm.DB,
	code, name string,
	groupID uint,
) (*schema.Specialty, bool, error) {
	return FindOrCreate(tx,
		map[string]any{"code": code},
		func() *schema.Specialty {
			return &schema.Specialty{Code: code, Name: name, GroupID: groupID}
		},
	)
}

// FindOrCreateProgram links an organization to a specialty.
func FindOrCreateProgram(
	tx *gorm.DB,
	orgID, specialtyID uint,
) (*schema.EducationalProgram, bool, error) {
	return FindOrCreate(tx,
		map[string]any{
			"organization_id": orgID,
			"specialty_id":    specialtyID,
		},
		func() *schema.EducationalProgram {
			return &schema.EducationalProgram{
				OrganizationID: orgID,
				SpecialtyID:    specialtyID,
			}
		},
	)
}

func entityName[T any]() string {
	var zero T
	return fmt.Sprintf("%T", zero)
}
