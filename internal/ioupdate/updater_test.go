package ioupdate_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/eduregistry/edureg/internal/iotesting"
	"github.com/eduregistry/edureg/internal/ioupdate"
	"github.com/eduregistry/edureg/pkg/config"
	"github.com/eduregistry/edureg/pkg/errcode"
	"github.com/eduregistry/edureg/pkg/schema"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const registry = `<?xml version="1.0" encoding="UTF-8"?>
<OpenData>
  <Certificates>
    <Certificate>
      <Id>1</Id>
      <ActualEducationOrganization>
        <FullName>Московский университет</FullName>
        <OGRN>1027700000001</OGRN>
        <INN>7701000001</INN>
        <RegionName>Москва</RegionName>
      </ActualEducationOrganization>
    </Certificate>
    <Certificate>
      <Id>2</Id>
      <ActualEducationOrganization>
        <FullName>Без ОГРН</FullName>
        <RegionName>Москва</RegionName>
      </ActualEducationOrganization>
    </Certificate>
    <Certificate>
      <Id>3</Id>
      <ActualEducationOrganization>
        <FullName>Казанский университет</FullName>
        <OGRN>1021600000002</OGRN>
        <RegionName>Республика Татарстан</RegionName>
      </ActualEducationOrganization>
    </Certificate>
  </Certificates>
</OpenData>`

// Scenarios A and B: three certificates, one without OGRN. The first run
// creates two organizations, the second run creates nothing.
func TestUpdate_FromCache(t *testing.T) {
	ctx := context.Background()
	cfg := iotesting.GetTestConfig(t)
	textfile := filepath.Join(t.TempDir(), "edureg.prom")
	cfg.Update([]config.Option{config.OptMetricsTextfile(textfile)})
	op := iotesting.NewOperator(t, cfg)
	iotesting.WriteFile(t, cfg.XMLDir(), "registry.xml", registry)

	u := ioupdate.New(cfg, op)
	stats, err := u.Update(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Fetched)
	assert.Equal(t, 3, stats.Parse.Certificates)
	assert.Equal(t, 2, stats.Parse.Records)
	assert.Equal(t, 2, stats.Populate.OrgsCreated)
	assert.Equal(t, 2, stats.Populate.RegionsCreated)

	stats, err = u.Update(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Populate.OrgsCreated)
	assert.Equal(t, 0, stats.Populate.RegionsCreated)
	assert.Equal(t, 2, stats.Populate.OrgsFound)

	var orgs int64
	require.NoError(t, op.DB().Model(&schema.EducationalOrganization{}).
		Count(&orgs).Error)
	assert.Equal(t, int64(2), orgs)

	data, err := os.ReadFile(textfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `edureg_runs_total{result="success"} 2`)
	assert.Contains(t, string(data), `edureg_organizations_total{result="created"} 2`)
}

func TestUpdate_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(registry))
		}))
	defer srv.Close()

	cfg := iotesting.GetTestConfig(t)
	cfg.Update([]config.Option{
		config.OptIngestSourceURL(srv.URL + "/opendata/data.xml"),
	})
	op := iotesting.NewOperator(t, cfg)

	stats, err := ioupdate.New(cfg, op).Update(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Fetched)
	assert.Equal(t, 2, stats.Populate.OrgsCreated)
}

func TestUpdate_FetchFailure(t *testing.T) {
	cfg := iotesting.GetTestConfig(t)
	textfile := filepath.Join(t.TempDir(), "edureg.prom")
	cfg.Update([]config.Option{config.OptMetricsTextfile(textfile)})
	op := iotesting.NewOperator(t, cfg)

	_, err := ioupdate.New(cfg, op).Update(context.Background(), true)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.FetchNoSourceURLError, gnErr.Code)

	data, err := os.ReadFile(textfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `edureg_runs_total{result="failure"} 1`)
}

func TestUpdate_EmptyCache(t *testing.T) {
	cfg := iotesting.GetTestConfig(t)
	op := iotesting.NewOperator(t, cfg)

	stats, err := ioupdate.New(cfg, op).Update(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Parse.Files)
	assert.Equal(t, 0, stats.Populate.Records)
}
