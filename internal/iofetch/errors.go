package iofetch

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/eduregistry/edureg/pkg/errcode"
	"github.com/gnames/gn"
)

// NoSourceURLError creates an error for a fetch without configured
// source.
func NoSourceURLError() error {
	msg := `Source URL of the registry is not set

<em>How to fix:</em>
  1. Set <em>ingest.source_url</em> in config.yaml
  2. Or set <em>EDUREG_INGEST_SOURCE_URL</em> environment variable
  3. Or put XML files into the cache directory and run <em>edureg populate</em>`

	return &gn.Error{
		Code: errcode.FetchNoSourceURLError,
		Msg:  msg,
		Vars: nil,
		Err:  errors.New("ingest.source_url is empty"),
	}
}

// RequestError creates an error for a failed download.
func RequestError(url string, err error) error {
	msg := `Cannot download <em>%s</em>

<em>Possible causes:</em>
  - No network connection
  - The server is down
  - The download was interrupted`

	vars := []any{url}

	return &gn.Error{
		Code: errcode.FetchRequestError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("download %s: %w", url, err),
	}
}

// StatusError creates an error for a non-OK HTTP response.
func StatusError(url string, status int) error {
	msg := "Server returned status <em>%d</em> for %s"

	vars := []any{status, url}

	return &gn.Error{
		Code: errcode.FetchStatusError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("download %s: status %d", url, status),
	}
}

// ArchiveError creates an error for a downloaded file that cannot be
// read or extracted.
func ArchiveError(path string, err error) error {
	msg := "Cannot extract XML files from <em>%s</em>"

	vars := []any{path}

	return &gn.Error{
		Code: errcode.FetchArchiveError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("extract %s: %w", path, err),
	}
}

// UnsafePathError creates an error for an archive entry that points
// outside of the extraction directory.
func UnsafePathError(name string) error {
	msg := `Archive entry <em>%s</em> points outside of the cache directory

The archive is rejected.`

	vars := []any{name}

	return &gn.Error{
		Code: errcode.FetchUnsafePathError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("unsafe archive entry %q", name),
	}
}

// DuplicateEntryError creates an error for two archive entries that would
// be stored under the same file name.
func DuplicateEntryError(name, first string) error {
	msg := `Archive entries <em>%s</em> and <em>%s</em> have the same file name

The archive is rejected.`

	vars := []any{first, name}

	return &gn.Error{
		Code: errcode.FetchDuplicateEntryError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("duplicate archive entry %q, first %q", name, first),
	}
}

// EntrySizeError creates an error for an archive entry that is larger
// than the extraction limit.
func EntrySizeError(name string, limit int64) error {
	msg := `Archive entry <em>%s</em> is larger than %s

The archive is rejected.`

	vars := []any{name, humanize.Bytes(uint64(limit))}

	return &gn.Error{
		Code: errcode.FetchEntrySizeError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("archive entry %q exceeds %d bytes", name, limit),
	}
}
