package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/eduregistry/edureg/internal/iodb"
	"github.com/eduregistry/edureg/internal/iotesting"
	"github.com/eduregistry/edureg/pkg/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const registryXML = `<?xml version="1.0" encoding="UTF-8"?>
<OpenData>
  <Certificates>
    <Certificate>
      <Id>1</Id>
      <ActualEducationOrganization>
        <Id>100</Id>
        <FullName>Московский университет</FullName>
        <OGRN>1027700000001</OGRN>
        <INN>7701000001</INN>
        <RegionName>Москва</RegionName>
      </ActualEducationOrganization>
    </Certificate>
    <Certificate>
      <Id>2</Id>
      <ActualEducationOrganization>
        <Id>200</Id>
        <FullName>Казанский университет</FullName>
        <OGRN>1021600000002</OGRN>
        <RegionName>Республика Татарстан</RegionName>
      </ActualEducationOrganization>
    </Certificate>
  </Certificates>
</OpenData>`

// useTestConfig points commands to a fresh test store.
func useTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg = iotesting.GetTestConfig(t)
	t.Cleanup(func() { cfg = nil })

	// a PostgreSQL test database is shared between runs
	op := iodb.NewOperator()
	require.NoError(t, op.Connect(context.Background(), cfg))
	require.NoError(t, op.DropAllTables(context.Background()))
	require.NoError(t, op.Close())
	return cfg
}

// createSchema runs create with --force on the test store.
func createSchema(t *testing.T) {
	t.Helper()
	require.NoError(t, runCreate(getCreateCmd(), true))
}

// execute runs a command with arguments and returns its output.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}
