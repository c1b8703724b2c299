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
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getUpdateCmd returns the update command.
func getUpdateCmd() *cobra.Command {
	var flags ingestFlags

	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Fetch source XML files and ingest them",
		Long: `Update runs fetch and populate as one run. Log lines of the run share
a run_id, and metrics are written to metrics.textfile when it is set,
also when the run fails.

Examples:
  edureg update
  edureg update --parent-rule head_id --metrics-textfile /var/lib/node_exporter/edureg.prom`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runIngest(cmd, &flags, true)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	flags.add(updateCmd)
	return updateCmd
}
