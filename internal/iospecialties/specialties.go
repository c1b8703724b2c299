// Package iospecialties loads the specialty taxonomy: enlarged specialty
// groups (UGS) with their specialties, read from a YAML file.
package iospecialties

import (
	"context"
	"log/slog"
	"os"

	"github.com/eduregistry/edureg/internal/iostore"
	"github.com/eduregistry/edureg/pkg/db"
	"github.com/eduregistry/edureg/pkg/record"
	"github.com/eduregistry/edureg/pkg/schema"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Taxonomy is the content of a taxonomy file.
//
//	groups:
//	  - code: "09.00.00"
//	    name: Информатика и вычислительная техника
//	    specialties:
//	      - code: "09.03.01"
//	        name: Информатика и вычислительная техника
type Taxonomy struct {
	Groups []Group `yaml:"groups" validate:"required,dive"`
}

// Group is an enlarged specialty group.
type Group struct {
	Code        string  `yaml:"code" validate:"required"`
	Name        string  `yaml:"name"`
	Specialties []Entry `yaml:"specialties" validate:"dive"`
}

// Entry is a specialty of a group.
type Entry struct {
	Code string `yaml:"code" validate:"required"`
	Name string `yaml:"name"`
}

// Stats counts rows touched by Load.
type Stats struct {
	GroupsCreated      int
	GroupsFound        int
	SpecialtiesCreated int
	SpecialtiesFound   int
}

// Loader stores taxonomies.
type Loader struct {
	sessions *iostore.Sessions
}

// New creates a Loader on a connected operator.
func New(op db.Operator) *Loader {
	return &Loader{sessions: iostore.NewSessions(op)}
}

// Read parses and validates a taxonomy file.
func Read(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ReadError(path, err)
	}

	var res Taxonomy
	if err = yaml.Unmarshal(data, &res); err != nil {
		return nil, ReadError(path, err)
	}
	if err = record.Validate.Struct(&res); err != nil {
		return nil, ReadError(path, err)
	}
	return &res, nil
}

// LoadFile reads a taxonomy file and stores it.
func (l *Loader) LoadFile(ctx context.Context, path string) (Stats, error) {
	tax, err := Read(path)
	if err != nil {
		return Stats{}, err
	}
	return l.Load(ctx, tax)
}

// Load find-or-creates every group and specialty of the taxonomy in one
// transaction. Existing rows keep their names and groups.
func (l *Loader) Load(ctx context.Context, tax *Taxonomy) (Stats, error) {
	var res Stats
	err := l.sessions.Scope(ctx, func(tx *gorm.DB) error {
		for _, g := range tax.Groups {
			if err := ctx.Err(); err != nil {
				return err
			}
			group, created, err := iostore.FindOrCreateSpecialtyGroup(
				tx, g.Code, g.Name,
			)
			if err != nil {
				return err
			}
			if created {
				res.GroupsCreated++
			} else {
				res.GroupsFound++
			}

			for _, s := range g.Specialties {
				_, created, err = iostore.FindOrCreateSpecialty(
					tx, s.Code, s.Name, group.ID,
				)
				if err != nil {
					return err
				}
				if created {
					res.SpecialtiesCreated++
				} else {
					res.SpecialtiesFound++
				}
			}
		}
		return nil
	})
	if err != nil {
		return Stats{}, LoadError(err)
	}

	slog.Info("Specialty taxonomy loaded",
		"groups_created", res.GroupsCreated,
		"groups_found", res.GroupsFound,
		"specialties_created", res.SpecialtiesCreated,
		"specialties_found", res.SpecialtiesFound,
	)
	return res, nil
}

// List returns all specialties with their groups ordered by code.
func (l *Loader) List(ctx context.Context) ([]schema.Specialty, error) {
	var res []schema.Specialty
	err := l.sessions.Scope(ctx, func(tx *gorm.DB) error {
		return tx.Preload("Group").Order("code").Find(&res).Error
	})
	if err != nil {
		return nil, LoadError(err)
	}
	return res, nil
}
