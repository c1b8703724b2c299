// Package iobrowse implements the read-only organization query of the
// registry with filtering, sorting and pagination.
package iobrowse

import (
	"context"

	"github.com/eduregistry/edureg/pkg/db"
	"github.com/eduregistry/edureg/pkg/schema"
	"gorm.io/gorm"
)

const (
	// DefaultPerPage is the page size used when none is given.
	DefaultPerPage = 20

	// MaxPerPage limits the page size.
	MaxPerPage = 100
)

// sortColumns maps sort keys to columns. Unknown keys sort by full name.
var sortColumns = map[string]string{
	"full_name":  "educational_organizations.full_name",
	"short_name": "educational_organizations.short_name",
	"ogrn":       "educational_organizations.ogrn",
	"inn":        "educational_organizations.inn",
	"region":     "regions.name",
}

// SortKeys returns the accepted sort keys.
func SortKeys() []string {
	return []string{"full_name", "short_name", "ogrn", "inn", "region"}
}

// Filter selects and orders organizations. Zero ids do not filter.
type Filter struct {
	RegionID    uint
	GroupID     uint
	SpecialtyID uint

	// Sort is one of SortKeys.
	Sort string
	Desc bool

	// Page starts from 1.
	Page    int
	PerPage int
}

// Page is one page of organizations.
type Page struct {
	Items   []schema.EducationalOrganization
	Total   int64
	Page    int
	PerPage int
	Pages   int
}

// Browser runs organization queries.
type Browser struct {
	operator db.Operator
}

// New creates a Browser on a connected operator.
func New(op db.Operator) *Browser {
	return &Browser{operator: op}
}

// Organizations returns one page of organizations that match the filter.
// A page past the end is empty.
func (b *Browser) Organizations(ctx context.Context, f Filter) (*Page, error) {
	gdb := b.operator.DB()
	if gdb == nil {
		return nil, NotConnectedError()
	}
	gdb = gdb.WithContext(ctx)

	page, perPage := normalizePage(f.Page, f.PerPage)
	res := &Page{Page: page, PerPage: perPage}

	if err := filtered(gdb, f).Count(&res.Total).Error; err != nil {
		return nil, QueryError(err)
	}
	res.Pages = int((res.Total + int64(perPage) - 1) / int64(perPage))

	q := filtered(gdb, f)
	col, ok := sortColumns[f.Sort]
	if !ok {
		col = sortColumns["full_name"]
	}
	if f.Sort == "region" {
		q = q.Joins("LEFT JOIN regions " +
			"ON regions.id = educational_organizations.region_id")
	}
	if f.Desc {
		col += " DESC"
	}

	err := q.Preload("Region").
		Order(col).
		Order("educational_organizations.id").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&res.Items).Error
	if err != nil {
		return nil, QueryError(err)
	}
	return res, nil
}

// filtered builds the query of organizations matching the filter. Program
// filters use a subquery, so every organization appears once.
func filtered(gdb *gorm.DB, f Filter) *gorm.DB {
	q := gdb.Model(&schema.EducationalOrganization{})
	if f.RegionID != 0 {
		q = q.Where("educational_organizations.region_id = ?", f.RegionID)
	}

	if f.GroupID == 0 && f.SpecialtyID == 0 {
		return q
	}

	sub := gdb.Model(&schema.EducationalProgram{}).
		Select("educational_programs.organization_id").
		Joins("JOIN specialties " +
			"ON specialties.id = educational_programs.specialty_id")
	if f.GroupID != 0 {
		sub = sub.Where("specialties.group_id = ?", f.GroupID)
	}
	if f.SpecialtyID != 0 {
		sub = sub.Where("educational_programs.specialty_id = ?", f.SpecialtyID)
	}
	return q.Where("educational_organizations.id IN (?)", sub)
}

func normalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}
