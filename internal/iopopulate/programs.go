package iopopulate

import (
	"context"
	"errors"

	"github.com/eduregistry/edureg/internal/iostore"
	"github.com/eduregistry/edureg/pkg/record"
	"github.com/eduregistry/edureg/pkg/schema"
	"gorm.io/gorm"
)

// linkPrograms is the second half of pass 2. Each program of a record
// links its organization to the specialty with the program code.
func (r *run) linkPrograms(
	ctx context.Context,
	recs []record.Organization,
) error {
	for i := range recs {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec := &recs[i]
		org, ok := r.cache.orgs[rec.OGRN]
		if !ok || len(rec.Programs) == 0 {
			continue
		}

		for _, prog := range rec.Programs {
			spec, err := r.specialty(prog)
			if err != nil {
				return err
			}
			if spec == nil {
				r.stats.SpecialtiesUnknown++
				continue
			}

			_, created, err := iostore.FindOrCreateProgram(r.tx, org.ID, spec.ID)
			if err != nil {
				return err
			}
			if created {
				r.stats.ProgramsLinked++
			}
		}
	}

	r.log.Info("Programs linked",
		"linked", r.stats.ProgramsLinked,
		"unknown_specialties", r.stats.SpecialtiesUnknown,
		"specialties_created", r.stats.SpecialtiesCreated,
	)
	return nil
}

// specialty resolves a program code through the cache and the store. An
// unknown code gives nil, unless ingest.create_specialties is set.
func (r *run) specialty(prog record.Program) (*schema.Specialty, error) {
	if spec, ok := r.cache.specialties[prog.Code]; ok {
		return spec, nil
	}

	var spec schema.Specialty
	err := r.tx.Where("code = ?", prog.Code).Take(&spec).Error
	if err == nil {
		r.cache.specialties[prog.Code] = &spec
		return &spec, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, FindSpecialtyError(prog.Code, err)
	}

	if !r.cfg.Ingest.CreateSpecialties || prog.GroupCode == "" {
		r.log.Debug("Unknown specialty", "code", prog.Code)
		r.cache.specialties[prog.Code] = nil
		return nil, nil
	}

	grp, err := r.specialtyGroup(prog)
	if err != nil {
		return nil, err
	}
	res, created, err := iostore.FindOrCreateSpecialty(
		r.tx, prog.Code, prog.Name, grp.ID)
	if err != nil {
		return nil, err
	}
	if created {
		r.stats.SpecialtiesCreated++
	}
	r.cache.specialties[prog.Code] = res
	return res, nil
}

func (r *run) specialtyGroup(
	prog record.Program,
) (*schema.SpecialtyGroup, error) {
	if grp, ok := r.cache.groups[prog.GroupCode]; ok {
		return grp, nil
	}
	grp, created, err := iostore.FindOrCreateSpecialtyGroup(
		r.tx, prog.GroupCode, prog.GroupName)
	if err != nil {
		return nil, err
	}
	if created {
		r.stats.SpecialtyGroupsAdded++
	}
	r.cache.groups[prog.GroupCode] = grp
	return grp, nil
}
