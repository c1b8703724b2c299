// Package ioregions administers the region dictionary. Names are stored in
// normalized form, duplicates are rejected and a region cannot be removed
// while organizations refer to it.
package ioregions

import (
	"context"
	"errors"
	"log/slog"

	"github.com/eduregistry/edureg/internal/iostore"
	"github.com/eduregistry/edureg/pkg/db"
	"github.com/eduregistry/edureg/pkg/region"
	"github.com/eduregistry/edureg/pkg/schema"
	"gorm.io/gorm"
)

// Region is a region with the number of organizations that refer to it.
type Region struct {
	ID            uint
	Name          string
	Organizations int64
}

// Manager changes regions, every change runs in its own transaction.
type Manager struct {
	sessions *iostore.Sessions
}

// New creates a Manager on a connected operator.
func New(op db.Operator) *Manager {
	return &Manager{sessions: iostore.NewSessions(op)}
}

// List returns all regions ordered by name.
func (m *Manager) List(ctx context.Context) ([]Region, error) {
	var res []Region
	err := m.sessions.Scope(ctx, func(tx *gorm.DB) error {
		return tx.Model(&schema.Region{}).
			Select("regions.id, regions.name, " +
				"COUNT(educational_organizations.id) AS organizations").
			Joins("LEFT JOIN educational_organizations " +
				"ON educational_organizations.region_id = regions.id").
			Group("regions.id, regions.name").
			Order("regions.name").
			Scan(&res).Error
	})
	if err != nil {
		return nil, QueryError(err)
	}
	return res, nil
}

// Add creates a region. The name is normalized first.
func (m *Manager) Add(ctx context.Context, name string) (*schema.Region, error) {
	norm := region.Normalize(name)
	if norm == "" {
		return nil, EmptyNameError()
	}

	var res *schema.Region
	err := m.sessions.Scope(ctx, func(tx *gorm.DB) error {
		reg, created, err := iostore.FindOrCreateRegion(tx, norm)
		if err != nil {
			return err
		}
		if !created {
			return ExistsError(norm)
		}
		res = reg
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Region added", "id", res.ID, "name", res.Name)
	return res, nil
}

// Rename changes the name of a region. The new name must not belong to
// another region.
func (m *Manager) Rename(
	ctx context.Context,
	id uint,
	name string,
) (*schema.Region, error) {
	norm := region.Normalize(name)
	if norm == "" {
		return nil, EmptyNameError()
	}

	var reg schema.Region
	err := m.sessions.Scope(ctx, func(tx *gorm.DB) error {
		if err := take(tx, id, &reg); err != nil {
			return err
		}

		var other schema.Region
		err := tx.Where("name = ? AND id <> ?", norm, id).Take(&other).Error
		if err == nil {
			return ExistsError(norm)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return QueryError(err)
		}

		reg.Name = norm
		if err = tx.Save(&reg).Error; err != nil {
			return QueryError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Region renamed", "id", reg.ID, "name", reg.Name)
	return &reg, nil
}

// Delete removes a region that no organization refers to.
func (m *Manager) Delete(ctx context.Context, id uint) error {
	var reg schema.Region
	err := m.sessions.Scope(ctx, func(tx *gorm.DB) error {
		if err := take(tx, id, &reg); err != nil {
			return err
		}

		var used int64
		err := tx.Model(&schema.EducationalOrganization{}).
			Where("region_id = ?", id).
			Count(&used).Error
		if err != nil {
			return QueryError(err)
		}
		if used > 0 {
			return InUseError(reg.Name, used)
		}

		if err = tx.Delete(&reg).Error; err != nil {
			return QueryError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("Region deleted", "id", id, "name", reg.Name)
	return nil
}

func take(tx *gorm.DB, id uint, reg *schema.Region) error {
	err := tx.Take(reg, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFoundError(id)
	}
	if err != nil {
		return QueryError(err)
	}
	return nil
}
