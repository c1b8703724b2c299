package iopopulate

import (
	"github.com/eduregistry/edureg/pkg/region"
	"github.com/eduregistry/edureg/pkg/schema"
)

// cache keeps entities resolved during one Populate call. It is not
// shared between calls or goroutines.
type cache struct {
	// regions by normalized name
	regions map[string]*schema.Region

	// specialty groups by code
	groups map[string]*schema.SpecialtyGroup

	// specialties by code, nil marks a code known to be absent
	specialties map[string]*schema.Specialty

	// organizations by OGRN
	orgs map[string]*schema.EducationalOrganization

	// organizations by source Id, used for parent linkage
	bySource map[string]*schema.EducationalOrganization

	// organizations by row id, one pointer per stored row
	byID map[uint]*schema.EducationalOrganization
}

func newCache() *cache {
	return &cache{
		regions:     make(map[string]*schema.Region),
		groups:      make(map[string]*schema.SpecialtyGroup),
		specialties: make(map[string]*schema.Specialty),
		orgs:        make(map[string]*schema.EducationalOrganization),
		bySource:    make(map[string]*schema.EducationalOrganization),
		byID:        make(map[uint]*schema.EducationalOrganization),
	}
}

// regionKey is the cache key of a region name. Lookup is case-insensitive
// because normalization folds case.
func regionKey(name string) string {
	return region.Normalize(name)
}

// canonical returns the pointer already cached for the row of org, or
// registers org. A row reached by OGRN and by INN under different record
// keys is then changed through a single value.
func (c *cache) canonical(
	org *schema.EducationalOrganization,
) *schema.EducationalOrganization {
	if res, ok := c.byID[org.ID]; ok {
		return res
	}
	c.byID[org.ID] = org
	return org
}

// addOrg caches org under the OGRN and source Id of a record and returns
// the canonical pointer of the row.
func (c *cache) addOrg(
	ogrn, sourceID string,
	org *schema.EducationalOrganization,
) *schema.EducationalOrganization {
	org = c.canonical(org)
	c.orgs[ogrn] = org
	if sourceID != "" {
		if _, ok := c.bySource[sourceID]; !ok {
			c.bySource[sourceID] = org
		}
	}
	return org
}
