package iopopulate

import (
	"testing"

	"github.com/eduregistry/edureg/pkg/schema"
	"github.com/stretchr/testify/assert"
)

func TestRegionKey(t *testing.T) {
	assert.Equal(t, regionKey("москва"), regionKey("Москва"))
	assert.Equal(t, regionKey("МОСКВА "), regionKey("Москва"))
	assert.Equal(t, "", regionKey("   "))
}

func TestCacheAddOrg(t *testing.T) {
	c := newCache()
	first := &schema.EducationalOrganization{ID: 1}
	second := &schema.EducationalOrganization{ID: 2}

	c.addOrg("1027700000001", "src", first)
	c.addOrg("1027700000002", "src", second)
	c.addOrg("1027700000003", "", second)

	assert.Len(t, c.orgs, 3)
	assert.Same(t, first, c.bySource["src"], "first source Id wins")
	assert.Len(t, c.bySource, 1)
}

func TestCacheSameRow(t *testing.T) {
	c := newCache()
	byINN := &schema.EducationalOrganization{ID: 7}
	byOGRN := &schema.EducationalOrganization{ID: 7}

	res := c.addOrg("1027700000099", "s1", byINN)
	assert.Same(t, byINN, res)

	res = c.addOrg("1027700000001", "s2", byOGRN)
	assert.Same(t, byINN, res)
	assert.Same(t, byINN, c.orgs["1027700000001"])
	assert.Same(t, byINN, c.bySource["s2"])
	assert.Same(t, byINN, c.canonical(&schema.EducationalOrganization{ID: 7}))
}
