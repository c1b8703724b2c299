package iostore_test

import (
	"testing"

	"github.com/eduregistry/edureg/internal/iostore"
	"github.com/eduregistry/edureg/internal/iotesting"
	"github.com/eduregistry/edureg/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParentRefusal(t *testing.T) {
	op := iotesting.NewOperator(t, iotesting.GetTestConfig(t))
	gdb := op.DB()

	mk := func(ogrn string, parent *schema.EducationalOrganization) *schema.EducationalOrganization {
		o := &schema.EducationalOrganization{
			FullName: "Организация " + ogrn,
			OGRN:     schema.NullString(ogrn),
		}
		if parent != nil {
			o.ParentID = &parent.ID
		}
		require.NoError(t, gdb.Create(o).Error)
		return o
	}
	head := mk("1027700000001", nil)
	branch := mk("1027700000002", head)
	loner := mk("1027700000003", nil)
	fresh := &schema.EducationalOrganization{FullName: "Новая"}

	tests := []struct {
		name          string
		child, parent *schema.EducationalOrganization
		reason        string
	}{
		{"self", loner, loner, iostore.RefusedSelf},
		{"parent is a branch", loner, branch, iostore.RefusedParentChild},
		{"child has branches", head, loner, iostore.RefusedHasBranches},
		{"allowed", loner, head, ""},
		{"new organization", fresh, head, ""},
		{"new organization under branch", fresh, branch,
			iostore.RefusedParentChild},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, err := iostore.ParentRefusal(gdb, tt.child, tt.parent)
			require.NoError(t, err)
			assert.Equal(t, tt.reason, reason)
		})
	}
}
