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
	"slices"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/eduregistry/edureg/internal/iobrowse"
	"github.com/eduregistry/edureg/pkg/schema"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getOrgsCmd returns the orgs command.
func getOrgsCmd() *cobra.Command {
	var (
		filter iobrowse.Filter
		asJSON bool
	)

	orgsCmd := &cobra.Command{
		Use:   "orgs",
		Short: "Browse educational organizations",
		Long: `Orgs prints one page of organizations of the registry.

Organizations can be filtered by region, specialty group and specialty
ids, and sorted by ` + strings.Join(iobrowse.SortKeys(), ", ") + `.
Pages start from 1, a page holds at most 100 organizations.

Subcommands add, edit and delete administer single organizations.

Examples:
  edureg orgs
  edureg orgs --region 5 --sort ogrn --desc
  edureg orgs --group 9 --page 2 --per-page 50 --json
  edureg orgs edit 12 --parent 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runOrgs(cmd, filter, asJSON)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	fs := orgsCmd.Flags()
	fs.UintVarP(&filter.RegionID, "region", "r", 0, "region id")
	fs.UintVarP(&filter.GroupID, "group", "g", 0, "specialty group id")
	fs.UintVarP(&filter.SpecialtyID, "specialty", "s", 0, "specialty id")
	fs.StringVar(&filter.Sort, "sort", "full_name",
		"sort key: "+strings.Join(iobrowse.SortKeys(), ", "))
	fs.BoolVar(&filter.Desc, "desc", false, "sort in descending order")
	fs.IntVarP(&filter.Page, "page", "p", 1, "page number")
	fs.IntVarP(&filter.PerPage, "per-page", "n", iobrowse.DefaultPerPage,
		"organizations per page")
	fs.BoolVar(&asJSON, "json", false, "print JSON")

	orgsCmd.AddCommand(
		getOrgsAddCmd(),
		getOrgsEditCmd(),
		getOrgsDeleteCmd(),
	)
	return orgsCmd
}

func runOrgs(cmd *cobra.Command, filter iobrowse.Filter, asJSON bool) error {
	ctx := context.Background()

	if !slices.Contains(iobrowse.SortKeys(), filter.Sort) {
		gn.Warn("Unknown sort key <em>%s</em>, sorting by full_name",
			filter.Sort)
	}

	op, err := connect(ctx, true)
	if err != nil {
		return err
	}
	defer op.Close()

	page, err := iobrowse.New(op).Organizations(ctx, filter)
	if err != nil {
		return err
	}

	if asJSON {
		return writeJSON(cmd.OutOrStdout(), page)
	}

	rows := make([][]string, len(page.Items))
	for i, v := range page.Items {
		rows[i] = []string{
			strconv.FormatUint(uint64(v.ID), 10),
			schema.Value(v.OGRN),
			schema.Value(v.INN),
			regionName(v.Region),
			v.FullName,
		}
	}
	err = writeTable(cmd.OutOrStdout(),
		[]string{"ID", "OGRN", "INN", "REGION", "NAME"}, rows)
	if err != nil {
		return err
	}

	gn.Info("Page <em>%d</em> of %d, %s organizations",
		page.Page, page.Pages, humanize.Comma(page.Total))
	return nil
}

func regionName(r *schema.Region) string {
	if r == nil {
		return "-"
	}
	return r.Name
}
