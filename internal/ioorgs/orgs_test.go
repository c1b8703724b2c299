package ioorgs_test

import (
	"context"
	"testing"

	"github.com/eduregistry/edureg/internal/iodb"
	"github.com/eduregistry/edureg/internal/ioorgs"
	"github.com/eduregistry/edureg/internal/iotesting"
	"github.com/eduregistry/edureg/pkg/db"
	"github.com/eduregistry/edureg/pkg/errcode"
	"github.com/eduregistry/edureg/pkg/schema"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*ioorgs.Manager, db.Operator) {
	t.Helper()
	op := iotesting.NewOperator(t, iotesting.GetTestConfig(t))
	return ioorgs.New(op), op
}

func code(t *testing.T, err error) gn.ErrorCode {
	t.Helper()
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "expected *gn.Error, got %v", err)
	return gnErr.Code
}

func fields(name, ogrn string) ioorgs.Fields {
	return ioorgs.Fields{FullName: name, OGRN: ogrn}
}

func TestAdd(t *testing.T) {
	ctx := context.Background()
	m, op := setup(t)

	reg := schema.Region{Name: "Москва"}
	require.NoError(t, op.DB().Create(&reg).Error)

	f := fields("  Московский университет ", " 1027700000001 ")
	f.INN = "7701000001"
	f.RegionID = reg.ID
	org, err := m.Add(ctx, f)
	require.NoError(t, err)
	assert.NotZero(t, org.ID)
	assert.Equal(t, "Московский университет", org.FullName)
	assert.Equal(t, "1027700000001", schema.Value(org.OGRN))
	assert.Equal(t, schema.OrganizationUUID("1027700000001"), org.UUID)
	require.NotNil(t, org.RegionID)
	assert.Equal(t, reg.ID, *org.RegionID)
	assert.Nil(t, org.ParentID)

	tests := []struct {
		msg  string
		f    ioorgs.Fields
		code gn.ErrorCode
	}{
		{"empty name", fields("", "1027700000002"), errcode.OrgInvalidError},
		{"no ogrn", fields("Орг", ""), errcode.OrgInvalidError},
		{"short ogrn", fields("Орг", "102770000"), errcode.OrgInvalidError},
		{"letters in ogrn", fields("Орг", "10277000000AB"),
			errcode.OrgInvalidError},
		{"duplicate ogrn", fields("Орг", "1027700000001"),
			errcode.OrgExistsError},
		{"duplicate inn", ioorgs.Fields{FullName: "Орг",
			OGRN: "1027700000002", INN: "7701000001"}, errcode.OrgExistsError},
		{"bad kpp", ioorgs.Fields{FullName: "Орг",
			OGRN: "1027700000002", KPP: "77010100"}, errcode.OrgInvalidError},
		{"unknown region", ioorgs.Fields{FullName: "Орг",
			OGRN: "1027700000002", RegionID: 999},
			errcode.OrgRegionNotFoundError},
		{"unknown parent", ioorgs.Fields{FullName: "Орг",
			OGRN: "1027700000002", ParentID: 999}, errcode.OrgNotFoundError},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			_, err := m.Add(ctx, tt.f)
			assert.Equal(t, tt.code, code(t, err))
		})
	}

	var count int64
	require.NoError(t, op.DB().Model(&schema.EducationalOrganization{}).
		Count(&count).Error)
	assert.Equal(t, int64(1), count, "failed adds leave no rows")
}

func TestHierarchy(t *testing.T) {
	ctx := context.Background()
	m, _ := setup(t)

	head, err := m.Add(ctx, fields("Головная", "1027700000001"))
	require.NoError(t, err)

	f := fields("Филиал", "1027700000002")
	f.ParentID = head.ID
	branch, err := m.Add(ctx, f)
	require.NoError(t, err)
	require.NotNil(t, branch.ParentID)

	other, err := m.Add(ctx, fields("Другая", "1027700000003"))
	require.NoError(t, err)

	// a branch cannot become a head organization
	f = fields("Подфилиал", "1027700000004")
	f.ParentID = branch.ID
	_, err = m.Add(ctx, f)
	assert.Equal(t, errcode.OrgParentError, code(t, err))

	// an organization with branches cannot become a branch
	_, err = m.Edit(ctx, head.ID, func(f *ioorgs.Fields) {
		f.ParentID = other.ID
	})
	assert.Equal(t, errcode.OrgParentError, code(t, err))

	// an organization cannot be its own head
	_, err = m.Edit(ctx, other.ID, func(f *ioorgs.Fields) {
		f.ParentID = other.ID
	})
	assert.Equal(t, errcode.OrgParentError, code(t, err))

	// moving a branch to another head is fine
	moved, err := m.Edit(ctx, branch.ID, func(f *ioorgs.Fields) {
		f.ParentID = other.ID
	})
	require.NoError(t, err)
	require.NotNil(t, moved.ParentID)
	assert.Equal(t, other.ID, *moved.ParentID)

	// and back to a head organization
	moved, err = m.Edit(ctx, branch.ID, func(f *ioorgs.Fields) {
		f.ParentID = 0
	})
	require.NoError(t, err)
	assert.Nil(t, moved.ParentID)
}

func TestEdit(t *testing.T) {
	ctx := context.Background()
	m, op := setup(t)

	a, err := m.Add(ctx, fields("Альфа", "1027700000001"))
	require.NoError(t, err)
	_, err = m.Add(ctx, fields("Бета", "1027700000002"))
	require.NoError(t, err)

	// own OGRN is not a conflict, untouched fields stay
	res, err := m.Edit(ctx, a.ID, func(f *ioorgs.Fields) {
		f.ShortName = "А"
	})
	require.NoError(t, err)
	assert.Equal(t, "Альфа", res.FullName)
	assert.Equal(t, "А", res.ShortName)

	_, err = m.Edit(ctx, a.ID, func(f *ioorgs.Fields) {
		f.OGRN = "1027700000002"
	})
	assert.Equal(t, errcode.OrgExistsError, code(t, err))

	res, err = m.Edit(ctx, a.ID, func(f *ioorgs.Fields) {
		f.OGRN = "1027700000009"
	})
	require.NoError(t, err)
	assert.Equal(t, schema.OrganizationUUID("1027700000009"), res.UUID)

	var stored schema.EducationalOrganization
	require.NoError(t, op.DB().Take(&stored, a.ID).Error)
	assert.Equal(t, "1027700000009", schema.Value(stored.OGRN))
	assert.Equal(t, "А", stored.ShortName)

	_, err = m.Edit(ctx, 999, func(*ioorgs.Fields) {})
	assert.Equal(t, errcode.OrgNotFoundError, code(t, err))
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	m, op := setup(t)
	gdb := op.DB()

	head, err := m.Add(ctx, fields("Головная", "1027700000001"))
	require.NoError(t, err)
	f := fields("Филиал", "1027700000002")
	f.ParentID = head.ID
	branch, err := m.Add(ctx, f)
	require.NoError(t, err)

	group := schema.SpecialtyGroup{Code: "09.00.00"}
	require.NoError(t, gdb.Create(&group).Error)
	spec := schema.Specialty{Code: "09.03.01", GroupID: group.ID}
	require.NoError(t, gdb.Create(&spec).Error)
	prog := schema.EducationalProgram{
		OrganizationID: head.ID,
		SpecialtyID:    spec.ID,
	}
	require.NoError(t, gdb.Create(&prog).Error)

	deleted, err := m.Delete(ctx, head.ID)
	require.NoError(t, err)
	assert.Equal(t, "Головная", deleted.FullName)

	var count int64
	require.NoError(t, gdb.Model(&schema.EducationalProgram{}).
		Count(&count).Error)
	assert.Equal(t, int64(0), count)

	var rest schema.EducationalOrganization
	require.NoError(t, gdb.Take(&rest, branch.ID).Error)
	assert.Nil(t, rest.ParentID, "branch becomes a head organization")

	_, err = m.Delete(ctx, head.ID)
	assert.Equal(t, errcode.OrgNotFoundError, code(t, err))
}

func TestNotConnected(t *testing.T) {
	m := ioorgs.New(iodb.NewOperator())

	_, err := m.Add(context.Background(), fields("Орг", "1027700000001"))
	assert.Equal(t, errcode.DBNotConnectedError, code(t, err))
}
