package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	RemoveDirError
	CopyFileError
	ReadFileError

	// Logging errors
	CreateLogFileError

	// Database errors
	DBConnectionError
	DBUnknownDriverError
	DBNotConnectedError
	DBTableExistsCheckError
	DBQueryTablesError
	DBDropTableError
	DBEmptyDatabaseError

	// Schema errors
	SchemaCreateError
	SchemaMigrateError

	// Store errors
	StoreTransactionError
	StoreFindOrCreateError

	// Parse errors
	ParseDirError
	ParseFileError

	// Populate errors
	PopulateError

	// Fetch errors
	FetchNoSourceURLError
	FetchRequestError
	FetchStatusError
	FetchArchiveError
	FetchUnsafePathError
	FetchDuplicateEntryError
	FetchEntrySizeError

	// Metrics errors
	MetricsWriteError

	// Optimize errors
	OptimizeVacuumError

	// Region administration errors
	RegionNotFoundError
	RegionExistsError
	RegionInUseError
	RegionEmptyNameError
	RegionQueryError

	// Organization administration errors
	OrgNotFoundError
	OrgInvalidError
	OrgExistsError
	OrgRegionNotFoundError
	OrgParentError
	OrgQueryError

	// Browse errors
	BrowseQueryError

	// Specialty taxonomy errors
	SpecialtiesReadError
	SpecialtiesLoadError
)
