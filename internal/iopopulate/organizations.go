package iopopulate

import (
	"context"
	"errors"
	"log/slog"

	"github.com/eduregistry/edureg/internal/ioprogress"
	"github.com/eduregistry/edureg/internal/iostore"
	"github.com/eduregistry/edureg/pkg/config"
	"github.com/eduregistry/edureg/pkg/edureg"
	"github.com/eduregistry/edureg/pkg/record"
	"github.com/eduregistry/edureg/pkg/region"
	"github.com/eduregistry/edureg/pkg/schema"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// run holds the state of one Populate call.
type run struct {
	cfg   *config.Config
	tx    *gorm.DB
	log   *slog.Logger
	cache *cache
	stats edureg.PopulateStats
}

func newRun(cfg *config.Config, tx *gorm.DB, log *slog.Logger) *run {
	return &run{cfg: cfg, tx: tx, log: log, cache: newCache()}
}

// resolveOrganizations is pass 1. Every record with OGRN ends up with an
// organization in the cache, found by OGRN or INN or newly created.
func (r *run) resolveOrganizations(
	ctx context.Context,
	recs []record.Organization,
) error {
	bar := ioprogress.New(len(recs), "Organizations: ",
		r.cfg.Ingest.ShowProgress)
	defer bar.Finish()

	for i := range recs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.resolveOrganization(&recs[i]); err != nil {
			return err
		}
		bar.Add(1)
	}

	r.log.Info("Organizations resolved",
		"created", r.stats.OrgsCreated,
		"found", r.stats.OrgsFound,
		"duplicates", r.stats.OrgsDuplicate,
		"regions_created", r.stats.RegionsCreated,
	)
	return nil
}

func (r *run) resolveOrganization(rec *record.Organization) error {
	if rec.OGRN == "" {
		r.stats.NoOGRN++
		r.log.Warn("Record without OGRN skipped",
			"file", rec.File, "certificate_id", rec.CertificateID)
		return nil
	}

	if _, ok := r.cache.orgs[rec.OGRN]; ok {
		r.stats.OrgsDuplicate++
		return nil
	}

	org, err := r.findOrganization("ogrn", rec.OGRN)
	if err != nil {
		return err
	}
	if org != nil {
		return r.reuse(rec, org, "ogrn")
	}

	reg, err := r.resolveRegion(rec)
	if err != nil {
		return err
	}

	if rec.INN != "" {
		org, err = r.findOrganization("inn", rec.INN)
		if err != nil {
			return err
		}
		if org != nil {
			return r.reuse(rec, org, "inn")
		}
	}

	org = newOrganization(rec, reg)
	if err = r.tx.Omit(clause.Associations).Create(org).Error; err != nil {
		return CreateOrganizationError(rec.OGRN, err)
	}
	r.stats.OrgsCreated++
	if reg == nil {
		r.stats.NoRegion++
	}
	r.cache.addOrg(rec.OGRN, rec.SourceID, org)
	r.log.Info("Organization created",
		"ogrn", rec.OGRN, "id", org.ID, "file", rec.File)
	return nil
}

// findOrganization returns nil when no organization has the given value
// of a key column.
func (r *run) findOrganization(
	column, value string,
) (*schema.EducationalOrganization, error) {
	var org schema.EducationalOrganization
	err := r.tx.Where(map[string]any{column: value}).Take(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, FindOrganizationError(column, value, err)
	}
	return &org, nil
}

// reuse caches an existing organization for the record. With
// ingest.update_existing the row is refreshed from the record, OGRN and
// INN stay as they are.
func (r *run) reuse(
	rec *record.Organization,
	org *schema.EducationalOrganization,
	by string,
) error {
	r.stats.OrgsFound++
	org = r.cache.addOrg(rec.OGRN, rec.SourceID, org)
	r.log.Info("Organization found",
		"ogrn", rec.OGRN, "id", org.ID, "by", by, "file", rec.File)

	if !r.cfg.Ingest.UpdateExisting {
		return nil
	}

	reg, err := r.resolveRegion(rec)
	if err != nil {
		return err
	}
	fillOrganization(org, rec, reg)
	if err = r.tx.Omit(clause.Associations).Save(org).Error; err != nil {
		return UpdateOrganizationError(rec.OGRN, err)
	}
	r.stats.OrgsUpdated++
	return nil
}

// resolveRegion uses the explicit region name of the record, or infers it
// from the postal address. It returns nil when neither gives a name.
func (r *run) resolveRegion(rec *record.Organization) (*schema.Region, error) {
	name := regionKey(rec.RegionName)
	if name == "" {
		inferred, ok := region.Infer(rec.PostAddress)
		if !ok {
			return nil, nil
		}
		name = inferred
	}

	if reg, ok := r.cache.regions[name]; ok {
		return reg, nil
	}

	reg, created, err := iostore.FindOrCreateRegion(r.tx, name)
	if err != nil {
		return nil, err
	}
	if created {
		r.stats.RegionsCreated++
		r.log.Info("Region created", "name", name, "id", reg.ID)
	}
	r.cache.regions[name] = reg
	return reg, nil
}

func newOrganization(
	rec *record.Organization,
	reg *schema.Region,
) *schema.EducationalOrganization {
	org := &schema.EducationalOrganization{
		UUID: schema.OrganizationUUID(rec.OGRN),
		OGRN: schema.NullString(rec.OGRN),
		INN:  schema.NullString(rec.INN),
	}
	fillOrganization(org, rec, reg)
	return org
}

// fillOrganization copies descriptive fields of a record. Keys are not
// touched. A nil region keeps the current region of the row.
func fillOrganization(
	org *schema.EducationalOrganization,
	rec *record.Organization,
	reg *schema.Region,
) {
	org.FullName = rec.FullName
	org.ShortName = rec.ShortName
	org.KPP = rec.KPP
	org.Address = rec.PostAddress
	org.Phone = rec.Phone
	org.Fax = rec.Fax
	org.Email = rec.Email
	org.Website = rec.WebSite
	org.HeadPost = rec.HeadPost
	org.HeadName = rec.HeadName
	org.FormName = rec.FormName
	org.FormCode = rec.FormCode
	org.KindName = rec.KindName
	org.KindCode = rec.KindCode
	org.TypeName = rec.TypeName
	org.TypeCode = rec.TypeCode
	org.RegionCode = rec.RegionCode
	org.FederalDistrictCode = rec.FederalDistrictCode
	org.FederalDistrictShortName = rec.FederalDistrictShortName
	org.FederalDistrictName = rec.FederalDistrictName
	if rec.SourceID != "" {
		org.SourceID = rec.SourceID
	}
	if reg != nil {
		org.RegionID = &reg.ID
	}
}
