package iopopulate_test

import (
	"context"
	"errors"
	"testing"

	"github.com/eduregistry/edureg/internal/iodb"
	"github.com/eduregistry/edureg/internal/iopopulate"
	"github.com/eduregistry/edureg/internal/iotesting"
	"github.com/eduregistry/edureg/pkg/config"
	"github.com/eduregistry/edureg/pkg/db"
	"github.com/eduregistry/edureg/pkg/errcode"
	"github.com/eduregistry/edureg/pkg/record"
	"github.com/eduregistry/edureg/pkg/schema"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setup(t *testing.T, opts ...config.Option) (*config.Config, db.Operator) {
	t.Helper()
	cfg := iotesting.GetTestConfig(t)
	cfg.Update(opts)
	return cfg, iotesting.NewOperator(t, cfg)
}

func org(ogrn, inn, region string) record.Organization {
	return record.Organization{
		FullName:   "Организация " + ogrn,
		ShortName:  "Орг " + ogrn,
		OGRN:       ogrn,
		INN:        inn,
		RegionName: region,
		File:       "data.xml",
	}
}

func count(t *testing.T, gdb *gorm.DB, model any) int64 {
	t.Helper()
	var res int64
	require.NoError(t, gdb.Model(model).Count(&res).Error)
	return res
}

func findOrg(t *testing.T, gdb *gorm.DB, ogrn string) schema.EducationalOrganization {
	t.Helper()
	var res schema.EducationalOrganization
	require.NoError(t, gdb.Where("ogrn = ?", ogrn).Take(&res).Error)
	return res
}

func TestPopulate_Empty(t *testing.T) {
	cfg, op := setup(t)
	p := iopopulate.New(cfg, op, nil)

	stats, err := p.Populate(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Records)
}

func TestPopulate_NotConnected(t *testing.T) {
	cfg := iotesting.GetTestConfig(t)
	p := iopopulate.New(cfg, iodb.NewOperator(), nil)

	_, err := p.Populate(context.Background(),
		[]record.Organization{org("1027700000001", "", "Москва")})
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.PopulateError, gnErr.Code)
}

// Two records with OGRN and distinct regions create two organizations
// and two regions. Running the same input again creates nothing.
func TestPopulate_Idempotent(t *testing.T) {
	ctx := context.Background()
	cfg, op := setup(t)
	p := iopopulate.New(cfg, op, nil)
	recs := []record.Organization{
		org("1027700000001", "7701000001", "Москва"),
		org("1021600000002", "1601000002", "Республика Татарстан"),
	}

	stats, err := p.Populate(ctx, recs)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Records)
	assert.Equal(t, 2, stats.OrgsCreated)
	assert.Equal(t, 2, stats.RegionsCreated)

	stats, err = p.Populate(ctx, recs)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.OrgsCreated)
	assert.Equal(t, 0, stats.RegionsCreated)
	assert.Equal(t, 2, stats.OrgsFound)

	gdb := op.DB()
	assert.Equal(t, int64(2), count(t, gdb, &schema.EducationalOrganization{}))
	assert.Equal(t, int64(2), count(t, gdb, &schema.Region{}))

	o := findOrg(t, gdb, "1027700000001")
	assert.Equal(t, schema.OrganizationUUID("1027700000001"), o.UUID)
	assert.Equal(t, "7701000001", schema.Value(o.INN))
	require.NotNil(t, o.RegionID)
}

func TestPopulate_RegionCaseInsensitive(t *testing.T) {
	cfg, op := setup(t)
	p := iopopulate.New(cfg, op, nil)

	stats, err := p.Populate(context.Background(), []record.Organization{
		org("1027700000001", "", "москва"),
		org("1027700000002", "", "  Москва "),
		org("1027700000003", "", "МОСКВА"),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, stats.OrgsCreated)
	assert.Equal(t, 1, stats.RegionsCreated)

	var regions []schema.Region
	require.NoError(t, op.DB().Find(&regions).Error)
	require.Len(t, regions, 1)
	assert.Equal(t, "Москва", regions[0].Name)
}

func TestPopulate_RegionInferred(t *testing.T) {
	cfg, op := setup(t)
	p := iopopulate.New(cfg, op, nil)

	withAddress := org("1026300000001", "", "")
	withAddress.PostAddress = "443086, Самарская обл., г. Самара, Московское ш., 34"
	noRegion := org("1026300000002", "", "")
	noRegion.PostAddress = "нет адреса"

	stats, err := p.Populate(context.Background(),
		[]record.Organization{withAddress, noRegion})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.RegionsCreated)
	assert.Equal(t, 1, stats.NoRegion)

	o := findOrg(t, op.DB(), "1026300000001")
	require.NotNil(t, o.RegionID)
	var reg schema.Region
	require.NoError(t, op.DB().First(&reg, *o.RegionID).Error)
	assert.Equal(t, "Самарская область", reg.Name)

	o = findOrg(t, op.DB(), "1026300000002")
	assert.Nil(t, o.RegionID)
}

func TestPopulate_DuplicatesAndMissingOGRN(t *testing.T) {
	cfg, op := setup(t)
	p := iopopulate.New(cfg, op, nil)

	stats, err := p.Populate(context.Background(), []record.Organization{
		org("1027700000001", "", "Москва"),
		org("", "7701000009", "Москва"),
		org("1027700000001", "", "Москва"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.OrgsCreated)
	assert.Equal(t, 1, stats.OrgsDuplicate)
	assert.Equal(t, 1, stats.NoOGRN)
	assert.Equal(t, int64(1),
		count(t, op.DB(), &schema.EducationalOrganization{}))
}

// An organization with a known INN but a new OGRN resolves to the stored
// row instead of creating a duplicate.
func TestPopulate_INNRecheck(t *testing.T) {
	ctx := context.Background()
	cfg, op := setup(t)
	p := iopopulate.New(cfg, op, nil)

	_, err := p.Populate(ctx, []record.Organization{
		org("1027700000001", "7701000001", "Москва"),
	})
	require.NoError(t, err)

	stats, err := p.Populate(ctx, []record.Organization{
		org("1027700000099", "7701000001", "Москва"),
		org("1027700000098", "7701000098", "Москва"),
		org("1027700000097", "7701000098", "Москва"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.OrgsCreated)
	assert.Equal(t, 2, stats.OrgsFound)
	assert.Equal(t, int64(2),
		count(t, op.DB(), &schema.EducationalOrganization{}))
}

// Malformed keys are kept as given and do not abort the batch.
func TestPopulate_MalformedKeys(t *testing.T) {
	cfg, op := setup(t)
	p := iopopulate.New(cfg, op, nil)

	bad := org("1027700000001", "77010000017701000001", "Москва")
	bad.KPP = "770101001, 770201001, 770301001"
	bad.RegionCode = "77 (город федерального значения Москва)"
	good := org("1027700000002", "7701000002", "Москва")

	stats, err := p.Populate(context.Background(),
		[]record.Organization{bad, good})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.OrgsCreated)

	o := findOrg(t, op.DB(), "1027700000001")
	assert.Equal(t, bad.KPP, o.KPP)
	assert.Equal(t, bad.INN, schema.Value(o.INN))
}

// A record with a stored OGRN and a different INN is resolved by OGRN and
// the stored INN is kept.
func TestPopulate_ScenarioC(t *testing.T) {
	ctx := context.Background()

	for _, update := range []bool{false, true} {
		cfg, op := setup(t, config.OptIngestUpdateExisting(update))
		p := iopopulate.New(cfg, op, nil)

		_, err := p.Populate(ctx, []record.Organization{
			org("1027700000001", "7701000001", "Москва"),
		})
		require.NoError(t, err)

		changed := org("1027700000001", "7701999999", "Тверская область")
		changed.FullName = "Новое название"
		stats, err := p.Populate(ctx, []record.Organization{changed})
		require.NoError(t, err)
		assert.Equal(t, 1, stats.OrgsFound)
		assert.Equal(t, 0, stats.OrgsCreated)

		o := findOrg(t, op.DB(), "1027700000001")
		assert.Equal(t, "7701000001", schema.Value(o.INN))
		assert.Equal(t, int64(1),
			count(t, op.DB(), &schema.EducationalOrganization{}))

		if update {
			assert.Equal(t, 1, stats.OrgsUpdated)
			assert.Equal(t, "Новое название", o.FullName)
		} else {
			assert.Equal(t, 0, stats.OrgsUpdated)
			assert.Equal(t, "Организация 1027700000001", o.FullName)
		}
	}
}

// A failure while storing the third organization rolls back the first two
// and the regions created for them.
func TestPopulate_Rollback(t *testing.T) {
	cfg, op := setup(t)
	p := iopopulate.New(cfg, op, nil)

	errForced := errors.New("forced failure")
	var inserts int
	err := op.DB().Callback().Create().Before("gorm:create").
		Register("test:fail_third_org", func(tx *gorm.DB) {
			if tx.Statement.Table != "educational_organizations" {
				return
			}
			inserts++
			if inserts == 3 {
				_ = tx.AddError(errForced)
			}
		})
	require.NoError(t, err)

	stats, err := p.Populate(context.Background(), []record.Organization{
		org("1027700000001", "", "Москва"),
		org("1021600000002", "", "Республика Татарстан"),
		org("1026900000003", "", "Тверская область"),
	})
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.PopulateError, gnErr.Code)
	assert.Equal(t, 0, stats.OrgsCreated)

	gdb := op.DB()
	assert.Equal(t, int64(0), count(t, gdb, &schema.EducationalOrganization{}))
	assert.Equal(t, int64(0), count(t, gdb, &schema.Region{}))
}

func TestPopulate_Cancelled(t *testing.T) {
	cfg, op := setup(t)
	p := iopopulate.New(cfg, op, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Populate(ctx, []record.Organization{
		org("1027700000001", "", "Москва"),
	})
	require.Error(t, err)
	assert.Equal(t, int64(0),
		count(t, op.DB(), &schema.EducationalOrganization{}))
}

func branch(ogrn, sourceID, headID string) record.Organization {
	res := org(ogrn, "", "Москва")
	res.SourceID = sourceID
	res.HeadSourceID = headID
	return res
}

func TestPopulate_Parents(t *testing.T) {
	ctx := context.Background()
	recs := []record.Organization{
		branch("1027700000001", "head", ""),
		branch("1027700000002", "b1", "head"),
		branch("1027700000003", "b2", "head"),
		branch("1027700000004", "b3", "b1"),
		branch("1027700000005", "self", "self"),
		branch("1027700000006", "b4", "absent"),
	}

	t.Run("none rule", func(t *testing.T) {
		cfg, op := setup(t)
		stats, err := iopopulate.New(cfg, op, nil).Populate(ctx, recs)
		require.NoError(t, err)
		assert.Equal(t, 0, stats.ParentsLinked)

		o := findOrg(t, op.DB(), "1027700000002")
		assert.Nil(t, o.ParentID)
	})

	t.Run("head_id rule", func(t *testing.T) {
		cfg, op := setup(t,
			config.OptIngestParentRule(config.ParentRuleHeadID))
		p := iopopulate.New(cfg, op, nil)
		stats, err := p.Populate(ctx, recs)
		require.NoError(t, err)
		assert.Equal(t, 2, stats.ParentsLinked)
		assert.Equal(t, 1, stats.ParentsRefused, "b1 is a branch")
		assert.Equal(t, 1, stats.ParentsMissing)

		head := findOrg(t, op.DB(), "1027700000001")
		for _, ogrn := range []string{"1027700000002", "1027700000003"} {
			o := findOrg(t, op.DB(), ogrn)
			require.NotNil(t, o.ParentID)
			assert.Equal(t, head.ID, *o.ParentID)
		}
		assert.Nil(t, findOrg(t, op.DB(), "1027700000004").ParentID)
		assert.Nil(t, findOrg(t, op.DB(), "1027700000005").ParentID)

		// the head is stored now, a new branch finds it in the store
		stats, err = p.Populate(ctx, []record.Organization{
			branch("1027700000007", "b7", "head"),
		})
		require.NoError(t, err)
		assert.Equal(t, 1, stats.ParentsLinked)
	})
}

func withPrograms(ogrn string, progs ...record.Program) record.Organization {
	res := org(ogrn, "", "Москва")
	res.Programs = progs
	return res
}

func TestPopulate_Programs(t *testing.T) {
	ctx := context.Background()
	ivt := record.Program{
		Code: "09.03.01", Name: "Информатика и вычислительная техника",
		GroupCode: "09.00.00", GroupName: "Информатика и вычислительная техника",
	}
	math := record.Program{
		Code: "01.03.01", Name: "Математика",
		GroupCode: "01.00.00", GroupName: "Математика и механика",
	}
	recs := []record.Organization{
		withPrograms("1027700000001", ivt, math, ivt),
		withPrograms("1027700000002", ivt),
	}

	t.Run("known specialties only", func(t *testing.T) {
		cfg, op := setup(t)
		gdb := op.DB()
		grp := schema.SpecialtyGroup{Code: "09.00.00", Name: "ИВТ"}
		require.NoError(t, gdb.Create(&grp).Error)
		require.NoError(t, gdb.Create(&schema.Specialty{
			Code: "09.03.01", Name: "ИВТ", GroupID: grp.ID,
		}).Error)

		stats, err := iopopulate.New(cfg, op, nil).Populate(ctx, recs)
		require.NoError(t, err)
		assert.Equal(t, 2, stats.ProgramsLinked)
		assert.Equal(t, 1, stats.SpecialtiesUnknown)
		assert.Equal(t, 0, stats.SpecialtiesCreated)
		assert.Equal(t, int64(2), count(t, gdb, &schema.EducationalProgram{}))
	})

	t.Run("create specialties", func(t *testing.T) {
		cfg, op := setup(t, config.OptIngestCreateSpecialties(true))
		p := iopopulate.New(cfg, op, nil)

		stats, err := p.Populate(ctx, recs)
		require.NoError(t, err)
		assert.Equal(t, 3, stats.ProgramsLinked)
		assert.Equal(t, 2, stats.SpecialtiesCreated)
		assert.Equal(t, 2, stats.SpecialtyGroupsAdded)

		stats, err = p.Populate(ctx, recs)
		require.NoError(t, err)
		assert.Equal(t, 0, stats.ProgramsLinked)
		assert.Equal(t, 0, stats.SpecialtiesCreated)

		gdb := op.DB()
		assert.Equal(t, int64(3), count(t, gdb, &schema.EducationalProgram{}))
		assert.Equal(t, int64(2), count(t, gdb, &schema.Specialty{}))
		assert.Equal(t, int64(2), count(t, gdb, &schema.SpecialtyGroup{}))
	})
}

// A stored row reached once by INN and once by its own OGRN is the same
// organization for parent checks of the run.
func TestPopulate_ParentsSameRow(t *testing.T) {
	ctx := context.Background()
	cfg, op := setup(t,
		config.OptIngestParentRule(config.ParentRuleHeadID))
	p := iopopulate.New(cfg, op, nil)

	stored := branch("1027700000001", "a", "")
	stored.INN = "7701000001"
	_, err := p.Populate(ctx, []record.Organization{
		branch("1027700000009", "h", ""),
		stored,
	})
	require.NoError(t, err)

	byINN := branch("1027700000002", "s1", "h")
	byINN.INN = "7701000001"
	stats, err := p.Populate(ctx, []record.Organization{
		byINN,
		branch("1027700000001", "s2", ""),
		branch("1027700000003", "c", "s2"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.OrgsFound)
	assert.Equal(t, 1, stats.ParentsLinked)
	assert.Equal(t, 1, stats.ParentsRefused, "parent is a branch")

	head := findOrg(t, op.DB(), "1027700000009")
	a := findOrg(t, op.DB(), "1027700000001")
	require.NotNil(t, a.ParentID)
	assert.Equal(t, head.ID, *a.ParentID)
	assert.Nil(t, findOrg(t, op.DB(), "1027700000003").ParentID)
}
