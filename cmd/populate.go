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

	"github.com/dustin/go-humanize"
	"github.com/eduregistry/edureg/internal/ioupdate"
	"github.com/eduregistry/edureg/pkg/edureg"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/spf13/cobra"
)

// getPopulateCmd returns the populate command.
func getPopulateCmd() *cobra.Command {
	var flags ingestFlags

	populateCmd := &cobra.Command{
		Use:   "populate",
		Short: "Ingest XML files from the cache directory",
		Long: `Populate parses accreditation certificates from *.xml files of the
cache directory and upserts them into the registry.

All changes of a run happen in one transaction: a failed run leaves the
registry as it was. Running populate twice on the same files changes
nothing.

Organizations are matched by OGRN. Regions are taken from the
certificate or inferred from the postal address. Branches get linked to
head organizations with --parent-rule head_id.

Examples:
  edureg populate
  edureg populate --dir ./xml --update-existing
  edureg populate -p head_id -c -j 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runIngest(cmd, &flags, false)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	flags.add(populateCmd)
	return populateCmd
}

func runIngest(cmd *cobra.Command, flags *ingestFlags, fetch bool) error {
	ctx := context.Background()

	if opts := flags.options(cmd); len(opts) > 0 {
		cfg.Update(opts)
	}

	op, err := connect(ctx, true)
	if err != nil {
		return err
	}
	defer op.Close()

	stats, err := ioupdate.New(cfg, op).Update(ctx, fetch)
	if err != nil {
		return err
	}

	printUpdateStats(stats)
	return nil
}

func printUpdateStats(stats edureg.UpdateStats) {
	p := stats.Populate
	gn.Info(`Ingestion finished in <em>%s</em>
  XML files:     %s (%s failed)
  Records:       %s
  Organizations: %s created, %s updated, %s found
  Regions:       %s created
  Programs:      %s linked
  Parents:       %s linked`,
		gnfmt.TimeString(stats.Duration.Seconds()),
		humanize.Comma(int64(stats.Parse.Files)),
		humanize.Comma(int64(stats.Parse.FailedFiles)),
		humanize.Comma(int64(stats.Parse.Records)),
		humanize.Comma(int64(p.OrgsCreated)),
		humanize.Comma(int64(p.OrgsUpdated)),
		humanize.Comma(int64(p.OrgsFound)),
		humanize.Comma(int64(p.RegionsCreated)),
		humanize.Comma(int64(p.ProgramsLinked)),
		humanize.Comma(int64(p.ParentsLinked)),
	)
}
