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

	"github.com/eduregistry/edureg/internal/ioregions"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getRegionsCmd returns the regions command with its subcommands.
func getRegionsCmd() *cobra.Command {
	regionsCmd := &cobra.Command{
		Use:   "regions",
		Short: "List and edit regions",
		Long: `Regions administers the region dictionary.

Names are normalized (extra spaces removed, first letter capitalized),
so 'москва' and 'Москва' are the same region. A region cannot be deleted
while organizations refer to it.

Examples:
  edureg regions list
  edureg regions add "Тверская область"
  edureg regions rename 3 "Республика Крым"
  edureg regions delete 3`,
	}

	regionsCmd.AddCommand(
		getRegionsListCmd(),
		getRegionsAddCmd(),
		getRegionsRenameCmd(),
		getRegionsDeleteCmd(),
	)
	return regionsCmd
}

// withRegions runs fn with a region manager on the registry.
func withRegions(fn func(context.Context, *ioregions.Manager) error) error {
	ctx := context.Background()
	op, err := connect(ctx, true)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer op.Close()

	if err = fn(ctx, ioregions.New(op)); err != nil {
		gn.PrintErrorMessage(err)
	}
	return err
}

func getRegionsListCmd() *cobra.Command {
	var asJSON bool

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List regions with numbers of organizations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRegions(func(ctx context.Context, m *ioregions.Manager) error {
				regions, err := m.List(ctx)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), regions)
				}
				rows := make([][]string, len(regions))
				for i, v := range regions {
					rows[i] = []string{
						strconv.FormatUint(uint64(v.ID), 10),
						v.Name,
						strconv.FormatInt(v.Organizations, 10),
					}
				}
				return writeTable(cmd.OutOrStdout(),
					[]string{"ID", "NAME", "ORGANIZATIONS"}, rows)
			})
		},
	}

	listCmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return listCmd
}

func getRegionsAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME",
		Short: "Add a region",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRegions(func(ctx context.Context, m *ioregions.Manager) error {
				reg, err := m.Add(ctx, args[0])
				if err != nil {
					return err
				}
				gn.Info("Added region <em>%s</em> (id %d)", reg.Name, reg.ID)
				return nil
			})
		},
	}
}

func getRegionsRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename ID NAME",
		Short: "Rename a region",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withRegions(func(ctx context.Context, m *ioregions.Manager) error {
				reg, err := m.Rename(ctx, id, args[1])
				if err != nil {
					return err
				}
				gn.Info("Region %d renamed to <em>%s</em>", reg.ID, reg.Name)
				return nil
			})
		},
	}
}

func getRegionsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a region without organizations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withRegions(func(ctx context.Context, m *ioregions.Manager) error {
				if err := m.Delete(ctx, id); err != nil {
					return err
				}
				gn.Info("Region %d deleted", id)
				return nil
			})
		},
	}
}
