/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"strconv"

	"github.com/eduregistry/edureg/internal/iospecialties"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getSpecialtiesCmd returns the specialties command with its subcommands.
func getSpecialtiesCmd() *cobra.Command {
	specialtiesCmd := &cobra.Command{
		Use:   "specialties",
		Short: "Load and list the specialty taxonomy",
		Long: `Specialties manages specialty groups (UGS) and specialties that
accredited programs refer to.

A taxonomy file is YAML:

  groups:
    - code: "09.00.00"
      name: Информатика и вычислительная техника
      specialties:
        - code: "09.03.01"
          name: Информатика и вычислительная техника

Loading is idempotent, existing groups and specialties keep their names.

Examples:
  edureg specialties load taxonomy.yaml
  edureg specialties list`,
	}

	specialtiesCmd.AddCommand(
		getSpecialtiesLoadCmd(),
		getSpecialtiesListCmd(),
	)
	return specialtiesCmd
}

func getSpecialtiesLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load FILE",
		Short: "Load a specialty taxonomy file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runSpecialtiesLoad(args[0])
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}
}

func runSpecialtiesLoad(path string) error {
	ctx := context.Background()

	// read before connecting, a broken file should not touch the store
	tax, err := iospecialties.Read(path)
	if err != nil {
		return err
	}

	op, err := connect(ctx, true)
	if err != nil {
		return err
	}
	defer op.Close()

	stats, err := iospecialties.New(op).Load(ctx, tax)
	if err != nil {
		return err
	}

	gn.Info("Groups: <em>%d</em> created, %d existing",
		stats.GroupsCreated, stats.GroupsFound)
	gn.Info("Specialties: <em>%d</em> created, %d existing",
		stats.SpecialtiesCreated, stats.SpecialtiesFound)
	return nil
}

func getSpecialtiesListCmd() *cobra.Command {
	var asJSON bool

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List specialties with their groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runSpecialtiesList(cmd, asJSON)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	listCmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return listCmd
}

func runSpecialtiesList(cmd *cobra.Command, asJSON bool) error {
	ctx := context.Background()

	op, err := connect(ctx, true)
	if err != nil {
		return err
	}
	defer op.Close()

	specs, err := iospecialties.New(op).List(ctx)
	if err != nil {
		return err
	}

	if asJSON {
		return writeJSON(cmd.OutOrStdout(), specs)
	}

	rows := make([][]string, len(specs))
	for i, v := range specs {
		var group string
		if v.Group != nil {
			group = v.Group.Code
		}
		rows[i] = []string{
			strconv.FormatUint(uint64(v.ID), 10),
			v.Code,
			group,
			v.Name,
		}
	}
	return writeTable(cmd.OutOrStdout(),
		[]string{"ID", "CODE", "GROUP", "NAME"}, rows)
}
