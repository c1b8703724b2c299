// Package ioxml implements the Parser interface. It streams accreditation
// certificates from XML files and converts each of them into an
// organization record. This is an impure I/O package.
package ioxml

import (
	"bufio"
	"context"
	"encoding/xml"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/eduregistry/edureg/internal/ioprogress"
	"github.com/eduregistry/edureg/pkg/config"
	"github.com/eduregistry/edureg/pkg/edureg"
	"github.com/eduregistry/edureg/pkg/record"
	"github.com/gnames/gnfmt"
	"golang.org/x/net/html/charset"
	"golang.org/x/sync/errgroup"
)

const (
	certificateTag  = "Certificate"
	organizationTag = "ActualEducationOrganization"
)

// programPath leads from a Certificate to its accredited programs.
var programPath = []string{
	"Supplements", "Supplement", "EducationalPrograms", "EducationalProgram",
}

type parser struct {
	cfg *config.Config
	log *slog.Logger
}

// New creates a Parser. When logger is nil the default logger is used.
func New(cfg *config.Config, logger *slog.Logger) edureg.Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &parser{cfg: cfg, log: logger}
}

// fileResult keeps the outcome of one file until all files are done.
type fileResult struct {
	recs  []record.Organization
	stats edureg.ParseStats
	err   error
}

// Parse reads all *.xml files of dir. Files are parsed concurrently, but
// records are returned in file name order and in document order within
// a file. A file that cannot be parsed is logged and skipped. Only
// cancellation of ctx stops the run with an error.
func (p *parser) Parse(
	ctx context.Context,
	dir string,
) ([]record.Organization, edureg.ParseStats, error) {
	var stats edureg.ParseStats
	start := time.Now()

	files, err := xmlFiles(dir)
	if err != nil {
		return nil, stats, err
	}
	stats.Files = len(files)
	if len(files) == 0 {
		p.log.Warn("No XML files found", "dir", dir)
		return nil, stats, nil
	}

	results := make([]fileResult, len(files))
	bar := ioprogress.New(len(files), "Parsing files: ",
		p.cfg.Ingest.ShowProgress)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(p.cfg.JobsNumber, 1))
	for i, path := range files {
		g.Go(func() error {
			defer bar.Add(1)
			p.log.Info("Parsing file", "file", path)
			recs, fst, err := p.parseFile(gctx, path)
			if ctxErr := gctx.Err(); ctxErr != nil {
				return ctxErr
			}
			results[i] = fileResult{recs: recs, stats: fst, err: err}
			return nil
		})
	}
	err = g.Wait()
	bar.Finish()
	if err != nil {
		return nil, stats, err
	}

	var res []record.Organization
	for i, r := range results {
		if r.err != nil {
			stats.FailedFiles++
			p.log.Error("Skipping file", "file", files[i], "error", r.err)
			continue
		}
		stats.Certificates += r.stats.Certificates
		stats.NoOrganization += r.stats.NoOrganization
		stats.NoOGRN += r.stats.NoOGRN
		stats.Invalid += r.stats.Invalid
		res = append(res, r.recs...)
	}
	stats.Records = len(res)

	if len(res) == 0 {
		p.log.Warn("No organization records extracted", "dir", dir,
			"files", stats.Files, "failed_files", stats.FailedFiles)
		return nil, stats, nil
	}

	p.log.Info("Parsing complete",
		"files", stats.Files,
		"failed_files", stats.FailedFiles,
		"certificates", stats.Certificates,
		"records", stats.Records,
		"duration", gnfmt.TimeString(time.Since(start).Seconds()),
	)
	return res, stats, nil
}

// xmlFiles returns sorted paths of files with .xml extension. A missing
// directory has no files.
func xmlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, ParseDirError(dir, err)
	}

	var res []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".xml") {
			continue
		}
		res = append(res, filepath.Join(dir, e.Name()))
	}
	return res, nil
}

// parseFile streams one file. Only Certificate elements are decoded, the
// rest of the document is skipped token by token.
func (p *parser) parseFile(
	ctx context.Context,
	path string,
) ([]record.Organization, edureg.ParseStats, error) {
	var stats edureg.ParseStats

	f, err := os.Open(path)
	if err != nil {
		return nil, stats, ParseFileError(path, err)
	}
	defer f.Close()

	dec := xml.NewDecoder(bufio.NewReader(f))
	dec.CharsetReader = charset.NewReaderLabel

	file := filepath.Base(path)
	var res []record.Organization
	for {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, stats, ctxErr
		}

		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, stats, ParseFileError(path, err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != certificateTag {
			continue
		}

		var cert Node
		if err = dec.DecodeElement(&cert, &se); err != nil {
			return nil, stats, ParseFileError(path, err)
		}
		stats.Certificates++

		rec, ok := p.certificateRecord(&cert, file, &stats)
		if ok {
			res = append(res, rec)
		}
	}
	return res, stats, nil
}

// certificateRecord converts a decoded Certificate into a record. It
// returns false when the certificate has no organization or the
// organization has no OGRN.
func (p *parser) certificateRecord(
	cert *Node,
	file string,
	stats *edureg.ParseStats,
) (record.Organization, bool) {
	certID := Text(cert, "Id", "")

	org := cert.Child(organizationTag)
	if org == nil {
		stats.NoOrganization++
		p.log.Warn("Certificate without organization skipped",
			"file", file, "certificate_id", certID)
		return record.Organization{}, false
	}

	rec := organizationRecord(org)
	if rec.OGRN == "" {
		stats.NoOGRN++
		p.log.Warn("Organization without OGRN skipped",
			"file", file, "certificate_id", certID)
		return record.Organization{}, false
	}

	rec.File = file
	rec.CertificateID = certID
	rec.Programs = programs(cert)

	if warns := rec.Warnings(); len(warns) > 0 {
		stats.Invalid++
		p.log.Warn("Organization record has invalid fields",
			"file", file, "certificate_id", certID,
			"ogrn", rec.OGRN, "problems", warns)
	}
	return rec, true
}

func organizationRecord(org *Node) record.Organization {
	return record.Organization{
		FullName:                 Text(org, "FullName", ""),
		ShortName:                Text(org, "ShortName", ""),
		OGRN:                     Text(org, "OGRN", ""),
		INN:                      Text(org, "INN", ""),
		KPP:                      Text(org, "KPP", ""),
		PostAddress:              Text(org, "PostAddress", ""),
		Phone:                    Text(org, "Phone", ""),
		Fax:                      Text(org, "Fax", ""),
		Email:                    Text(org, "Email", ""),
		WebSite:                  Text(org, "WebSite", ""),
		HeadPost:                 Text(org, "HeadPost", ""),
		HeadName:                 Text(org, "HeadName", ""),
		FormName:                 Text(org, "FormName", ""),
		FormCode:                 Text(org, "FormCode", ""),
		KindName:                 Text(org, "KindName", ""),
		KindCode:                 Text(org, "KindCode", ""),
		TypeName:                 Text(org, "TypeName", ""),
		TypeCode:                 Text(org, "TypeCode", ""),
		RegionName:               Text(org, "RegionName", ""),
		RegionCode:               Text(org, "RegionCode", ""),
		FederalDistrictCode:      Text(org, "FederalDistrictCode", ""),
		FederalDistrictShortName: Text(org, "FederalDistrictShortName", ""),
		FederalDistrictName:      Text(org, "FederalDistrictName", ""),
		SourceID:                 Text(org, "Id", ""),
		HeadSourceID:             Text(org, "HeadEduOrgId", ""),
	}
}

// programs collects accredited programs from certificate supplements.
// Programs without a code cannot be linked and are left out.
func programs(cert *Node) []record.Program {
	var res []record.Program
	for _, node := range cert.Path(programPath...) {
		prog := record.Program{
			Code:      Text(node, "ProgrammCode", ""),
			Name:      Text(node, "ProgrammName", ""),
			GroupCode: Text(node, "UGSCode", ""),
			GroupName: Text(node, "UGSName", ""),
			Level:     Text(node, "EduLevelName", ""),
		}
		if prog.Code == "" {
			continue
		}
		res = append(res, prog)
	}
	return res
}
