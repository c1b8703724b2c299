// Package iofetch implements the Fetcher interface. It downloads the
// published registry into the XML cache directory. The source may be a
// zip archive of XML files or a single XML document.
// This is an impure I/O package.
package iofetch

import (
	"archive/zip"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/eduregistry/edureg/internal/iofs"
	"github.com/eduregistry/edureg/internal/ioprogress"
	"github.com/eduregistry/edureg/pkg/config"
	"github.com/eduregistry/edureg/pkg/edureg"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gnames/gnfmt"
)

// defaultName is used for a plain XML download when the URL path does not
// end with an .xml file name.
const defaultName = "registry.xml"

// maxEntrySize limits the uncompressed size of one extracted XML file.
var maxEntrySize int64 = 8 << 30

type fetcher struct {
	cfg    *config.Config
	client *http.Client
	log    *slog.Logger
}

// New creates a Fetcher. When logger is nil the default logger is used.
func New(cfg *config.Config, logger *slog.Logger) edureg.Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &fetcher{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Minute},
		log:    logger,
	}
}

// Fetch clears the XML cache directory, downloads ingest.source_url and
// stores XML files from it in the directory.
func (f *fetcher) Fetch(ctx context.Context) ([]string, error) {
	src := f.cfg.Ingest.SourceURL
	if src == "" {
		return nil, NoSourceURLError()
	}

	start := time.Now()
	dir := f.cfg.XMLDir()
	if err := iofs.ClearDir(dir); err != nil {
		return nil, err
	}

	f.log.Info("Downloading registry", "url", src, "dir", dir)
	tmp, size, err := f.download(ctx, src, dir)
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp)

	mtype, err := mimetype.DetectFile(tmp)
	if err != nil {
		return nil, ArchiveError(src, err)
	}

	var res []string
	if mtype.Is("application/zip") {
		res, err = extractXML(tmp, dir)
	} else {
		res, err = storeXML(tmp, dir, xmlName(src))
	}
	if err != nil {
		return nil, err
	}

	f.log.Info("Registry downloaded",
		"url", src,
		"size", humanize.Bytes(uint64(size)),
		"mime", mtype.String(),
		"files", len(res),
		"duration", gnfmt.TimeString(time.Since(start).Seconds()),
	)
	return res, nil
}

// download saves the response body to a temporary file in dir.
func (f *fetcher) download(
	ctx context.Context,
	src, dir string,
) (string, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return "", 0, RequestError(src, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", 0, RequestError(src, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", 0, StatusError(src, resp.StatusCode)
	}

	out, err := os.CreateTemp(dir, "download-*.tmp")
	if err != nil {
		return "", 0, iofs.CopyFileError(dir, err)
	}
	defer out.Close()

	bar := ioprogress.NewBytes(resp.ContentLength, "Downloading: ",
		f.cfg.Ingest.ShowProgress)
	size, err := io.Copy(out, bar.Reader(resp.Body))
	bar.Finish()
	if err != nil {
		os.Remove(out.Name())
		return "", 0, RequestError(src, err)
	}
	return out.Name(), size, nil
}

// extractXML copies *.xml entries of a zip archive into dir. Entries are
// stored under their base names. An entry with a path leading outside of
// the archive root, two entries with the same base name or an entry
// larger than maxEntrySize fail the whole extraction.
func extractXML(archive, dir string) ([]string, error) {
	zr, err := zip.OpenReader(archive)
	if errors.Is(err, zip.ErrInsecurePath) {
		zr.Close()
		return nil, UnsafePathError(filepath.Base(archive))
	}
	if err != nil {
		return nil, ArchiveError(archive, err)
	}
	defer zr.Close()

	var res []string
	seen := make(map[string]string)
	for _, zf := range zr.File {
		if !filepath.IsLocal(zf.Name) || strings.Contains(zf.Name, `\`) {
			return nil, UnsafePathError(zf.Name)
		}
		if zf.FileInfo().IsDir() ||
			!strings.EqualFold(path.Ext(zf.Name), ".xml") {
			continue
		}

		name := path.Base(zf.Name)
		key := strings.ToLower(name)
		if first, ok := seen[key]; ok {
			return nil, DuplicateEntryError(zf.Name, first)
		}
		seen[key] = zf.Name

		target := filepath.Join(dir, name)
		if err = extractFile(zf, target); err != nil {
			if errors.Is(err, errTooLarge) {
				return nil, EntrySizeError(zf.Name, maxEntrySize)
			}
			return nil, ArchiveError(archive, err)
		}
		res = append(res, target)
	}
	return res, nil
}

var errTooLarge = errors.New("entry too large")

func extractFile(zf *zip.File, target string) error {
	r, err := zf.Open()
	if err != nil {
		return err
	}
	defer r.Close()

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	n, err := io.Copy(out, io.LimitReader(r, maxEntrySize+1))
	if err == nil && n > maxEntrySize {
		err = errTooLarge
	}
	if err != nil {
		out.Close()
		os.Remove(target)
		return err
	}
	return out.Close()
}

// storeXML moves a downloaded XML document into dir under name.
func storeXML(tmp, dir, name string) ([]string, error) {
	target := filepath.Join(dir, name)
	if err := os.Rename(tmp, target); err != nil {
		return nil, iofs.CopyFileError(target, err)
	}
	return []string{target}, nil
}

// xmlName takes the file name from the URL path when it is an XML file.
func xmlName(src string) string {
	u, err := url.Parse(src)
	if err != nil {
		return defaultName
	}
	name := path.Base(u.Path)
	if !strings.EqualFold(path.Ext(name), ".xml") {
		return defaultName
	}
	return name
}
