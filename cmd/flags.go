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
	"github.com/eduregistry/edureg/pkg/config"
	"github.com/spf13/cobra"
)

// ingestFlags are the flags shared by populate and update.
type ingestFlags struct {
	dir               string
	parentRule        string
	updateExisting    bool
	createSpecialties bool
	jobs              int
	metricsTextfile   string
	quiet             bool
}

func (f *ingestFlags) add(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.dir, "dir", "d", "",
		"directory with XML files (overrides ingest.cache_dir)")
	fs.StringVarP(&f.parentRule, "parent-rule", "p", "",
		"branch linkage rule: none or head_id")
	fs.BoolVarP(&f.updateExisting, "update-existing", "u", false,
		"refresh fields of organizations already in the registry")
	fs.BoolVarP(&f.createSpecialties, "create-specialties", "c", false,
		"create specialties missing from the taxonomy")
	fs.IntVarP(&f.jobs, "jobs", "j", 0,
		"number of XML files parsed concurrently")
	fs.StringVarP(&f.metricsTextfile, "metrics-textfile", "m", "",
		"write Prometheus metrics of the run to this file")
	fs.BoolVarP(&f.quiet, "quiet", "q", false,
		"do not show progress bars")
}

// options converts explicitly set flags to config options.
func (f *ingestFlags) options(cmd *cobra.Command) []config.Option {
	fs := cmd.Flags()
	var res []config.Option
	if fs.Changed("dir") {
		res = append(res, config.OptIngestCacheDir(f.dir))
	}
	if fs.Changed("parent-rule") {
		res = append(res, config.OptIngestParentRule(f.parentRule))
	}
	if fs.Changed("update-existing") {
		res = append(res, config.OptIngestUpdateExisting(f.updateExisting))
	}
	if fs.Changed("create-specialties") {
		res = append(res,
			config.OptIngestCreateSpecialties(f.createSpecialties))
	}
	if fs.Changed("jobs") {
		res = append(res, config.OptJobsNumber(f.jobs))
	}
	if fs.Changed("metrics-textfile") {
		res = append(res, config.OptMetricsTextfile(f.metricsTextfile))
	}
	if fs.Changed("quiet") {
		res = append(res, config.OptIngestShowProgress(!f.quiet))
	}
	return res
}
