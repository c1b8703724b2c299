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
	"log/slog"

	"github.com/eduregistry/edureg/internal/iofetch"
	"github.com/eduregistry/edureg/pkg/config"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getFetchCmd returns the fetch command.
func getFetchCmd() *cobra.Command {
	var sourceURL string

	fetchCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download source XML files into the cache directory",
		Long: `Fetch replaces the content of the XML cache directory with files
downloaded from ingest.source_url.

A zip archive is unpacked (only *.xml entries are kept), any other
response is stored as a single XML file.

Examples:
  edureg fetch
  edureg fetch --url https://example.org/registry.zip`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runFetch(cmd, sourceURL)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	fetchCmd.Flags().StringVarP(&sourceURL, "url", "u", "",
		"source URL (overrides ingest.source_url)")

	return fetchCmd
}

func runFetch(cmd *cobra.Command, sourceURL string) error {
	if cmd.Flags().Changed("url") {
		cfg.Update([]config.Option{config.OptIngestSourceURL(sourceURL)})
	}

	paths, err := iofetch.New(cfg, slog.Default()).Fetch(context.Background())
	if err != nil {
		return err
	}

	gn.Info("Fetched <em>%d</em> XML files into <em>%s</em>",
		len(paths), cfg.XMLDir())
	return nil
}
