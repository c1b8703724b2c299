package iostore

import (
	"github.com/eduregistry/edureg/pkg/schema"
	"gorm.io/gorm"
)

// Reasons returned by ParentRefusal.
const (
	RefusedSelf        = "self reference"
	RefusedParentChild = "parent is a branch"
	RefusedHasBranches = "organization has branches"
)

// ParentRefusal returns a non-empty reason when making parent the head
// organization of child would break the one level hierarchy. A child
// with zero ID is an organization that is not stored yet. A failed query
// is returned unchanged.
func ParentRefusal(
	tx *gorm.DB,
	child, parent *schema.EducationalOrganization,
) (string, error) {
	if child.ID != 0 && child.ID == parent.ID {
		return RefusedSelf, nil
	}
	if parent.ParentID != nil {
		return RefusedParentChild, nil
	}
	if child.ID == 0 {
		return "", nil
	}

	var branches int64
	err := tx.Model(&schema.EducationalOrganization{}).
		Where("parent_id = ?", child.ID).
		Count(&branches).Error
	if err != nil {
		return "", err
	}
	if branches > 0 {
		return RefusedHasBranches, nil
	}
	return "", nil
}
