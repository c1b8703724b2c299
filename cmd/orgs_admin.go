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

	"github.com/eduregistry/edureg/internal/ioorgs"
	"github.com/eduregistry/edureg/pkg/schema"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// orgFlags are organization fields given on the command line.
type orgFlags struct {
	fullName  string
	shortName string
	ogrn      string
	inn       string
	kpp       string
	address   string
	region    uint
	parent    uint
}

func (f *orgFlags) add(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.fullName, "full-name", "", "full name")
	fs.StringVar(&f.shortName, "short-name", "", "short name")
	fs.StringVar(&f.ogrn, "ogrn", "", "OGRN, 13 or 15 digits")
	fs.StringVar(&f.inn, "inn", "", "INN, 10 or 12 digits")
	fs.StringVar(&f.kpp, "kpp", "", "KPP, 9 digits")
	fs.StringVar(&f.address, "address", "", "postal address")
	fs.UintVar(&f.region, "region", 0, "region id, 0 for none")
	fs.UintVar(&f.parent, "parent", 0,
		"head organization id, 0 for a head organization")
}

// apply copies the flags that were set on cmd into fields.
func (f *orgFlags) apply(cmd *cobra.Command, fields *ioorgs.Fields) {
	fs := cmd.Flags()
	if fs.Changed("full-name") {
		fields.FullName = f.fullName
	}
	if fs.Changed("short-name") {
		fields.ShortName = f.shortName
	}
	if fs.Changed("ogrn") {
		fields.OGRN = f.ogrn
	}
	if fs.Changed("inn") {
		fields.INN = f.inn
	}
	if fs.Changed("kpp") {
		fields.KPP = f.kpp
	}
	if fs.Changed("address") {
		fields.Address = f.address
	}
	if fs.Changed("region") {
		fields.RegionID = f.region
	}
	if fs.Changed("parent") {
		fields.ParentID = f.parent
	}
}

// withOrgs runs fn with an organization manager on the registry.
func withOrgs(fn func(context.Context, *ioorgs.Manager) error) error {
	ctx := context.Background()
	op, err := connect(ctx, true)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer op.Close()

	if err = fn(ctx, ioorgs.New(op)); err != nil {
		gn.PrintErrorMessage(err)
	}
	return err
}

func getOrgsAddCmd() *cobra.Command {
	var flags orgFlags

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add an organization",
		Long: `Add creates an organization. Full name and OGRN are required,
OGRN and INN must not belong to another organization. A head
organization given by --parent must not be a branch itself.

Examples:
  edureg orgs add --full-name "Тверской колледж" --ogrn 1026900000003
  edureg orgs add --full-name "Филиал" --ogrn 1026900000004 --parent 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var fields ioorgs.Fields
			flags.apply(cmd, &fields)
			return withOrgs(func(ctx context.Context, m *ioorgs.Manager) error {
				org, err := m.Add(ctx, fields)
				if err != nil {
					return err
				}
				gn.Info("Added organization <em>%s</em> (id %d)",
					org.FullName, org.ID)
				return nil
			})
		},
	}

	flags.add(addCmd)
	return addCmd
}

func getOrgsEditCmd() *cobra.Command {
	var flags orgFlags

	editCmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change fields of an organization",
		Long: `Edit changes the fields given by flags, other fields stay.
Use --region 0 or --parent 0 to clear a region or a head organization.

Examples:
  edureg orgs edit 3 --short-name "ТК"
  edureg orgs edit 4 --parent 0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withOrgs(func(ctx context.Context, m *ioorgs.Manager) error {
				org, err := m.Edit(ctx, id, func(f *ioorgs.Fields) {
					flags.apply(cmd, f)
				})
				if err != nil {
					return err
				}
				gn.Info("Organization %d updated, OGRN <em>%s</em>",
					org.ID, schema.Value(org.OGRN))
				return nil
			})
		},
	}

	flags.add(editCmd)
	return editCmd
}

func getOrgsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an organization with its programs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withOrgs(func(ctx context.Context, m *ioorgs.Manager) error {
				org, err := m.Delete(ctx, id)
				if err != nil {
					return err
				}
				gn.Info("Organization %d <em>%s</em> deleted", id, org.FullName)
				return nil
			})
		},
	}
}
