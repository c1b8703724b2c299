package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/eduregistry/edureg/internal/iodb"
	"github.com/eduregistry/edureg/internal/iotesting"
	"github.com/eduregistry/edureg/pkg/config"
	"github.com/eduregistry/edureg/pkg/errcode"
	"github.com/eduregistry/edureg/pkg/schema"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestIngestCmds_Flags verifies populate and update share ingest flags.
func TestIngestCmds_Flags(t *testing.T) {
	flags := []struct{ name, short string }{
		{"dir", "d"},
		{"parent-rule", "p"},
		{"update-existing", "u"},
		{"create-specialties", "c"},
		{"jobs", "j"},
		{"metrics-textfile", "m"},
		{"quiet", "q"},
	}

	for _, cmd := range []*cobra.Command{getPopulateCmd(), getUpdateCmd()} {
		t.Run(cmd.Use, func(t *testing.T) {
			assert.NotNil(t, cmd.RunE)
			for _, f := range flags {
				flag := cmd.Flags().Lookup(f.name)
				require.NotNil(t, flag, f.name)
				assert.Equal(t, f.short, flag.Shorthand, f.name)
			}
		})
	}
}

func TestIngestFlags_Options(t *testing.T) {
	var flags ingestFlags
	cmd := &cobra.Command{Use: "test"}
	flags.add(cmd)

	// nothing changed, nothing overridden
	assert.Empty(t, flags.options(cmd))

	require.NoError(t, cmd.Flags().Set("parent-rule", "head_id"))
	require.NoError(t, cmd.Flags().Set("update-existing", "true"))
	require.NoError(t, cmd.Flags().Set("quiet", "true"))
	require.NoError(t, cmd.Flags().Set("jobs", "3"))

	c := config.New()
	c.Update(flags.options(cmd))
	assert.Equal(t, config.ParentRuleHeadID, c.Ingest.ParentRule)
	assert.True(t, c.Ingest.UpdateExisting)
	assert.False(t, c.Ingest.CreateSpecialties)
	assert.False(t, c.Ingest.ShowProgress)
	assert.Equal(t, 3, c.JobsNumber)
}

func countOrgs(t *testing.T) int64 {
	t.Helper()
	ctx := context.Background()
	op := iodb.NewOperator()
	require.NoError(t, op.Connect(ctx, cfg))
	defer op.Close()

	var res int64
	require.NoError(t, op.DB().Model(&schema.EducationalOrganization{}).
		Count(&res).Error)
	return res
}

// populate ingests the test registry into a fresh schema.
func populate(t *testing.T) {
	t.Helper()
	iotesting.WriteFile(t, cfg.XMLDir(), "registry.xml", registryXML)
	_, err := execute(t, getPopulateCmd())
	require.NoError(t, err)
}

func TestPopulate(t *testing.T) {
	useTestConfig(t)
	createSchema(t)

	populate(t)
	assert.Equal(t, int64(2), countOrgs(t))

	// second run changes nothing
	populate(t)
	assert.Equal(t, int64(2), countOrgs(t))
}

func TestPopulate_DirAndMetrics(t *testing.T) {
	useTestConfig(t)
	createSchema(t)

	dir := filepath.Join(t.TempDir(), "certificates")
	iotesting.WriteFile(t, dir, "a.xml", registryXML)
	textfile := filepath.Join(t.TempDir(), "edureg.prom")

	_, err := execute(t, getPopulateCmd(),
		"--dir", dir, "--metrics-textfile", textfile, "-q")
	require.NoError(t, err)
	assert.Equal(t, int64(2), countOrgs(t))

	data, err := os.ReadFile(textfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "edureg_runs_total")
}

func TestPopulate_EmptyDatabase(t *testing.T) {
	useTestConfig(t)

	_, err := execute(t, getPopulateCmd())
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.DBEmptyDatabaseError, gnErr.Code)
}

func TestUpdate_NoSourceURL(t *testing.T) {
	useTestConfig(t)
	createSchema(t)

	_, err := execute(t, getUpdateCmd())
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.FetchNoSourceURLError, gnErr.Code)
}
