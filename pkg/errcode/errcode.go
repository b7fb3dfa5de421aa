package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError
	WriteFileError

	// Logging errors
	CreateLogFileError

	// Database errors
	DBConnectionError
	DBTableCheckError
	DBEmptyDatabaseError
	DBNotConnectedError
	DBTableExistsCheckError
	DBQueryTablesError
	DBScanTableError
	DBDropTableError
	DBUnknownBackendError

	// Schema errors
	SchemaGORMConnectionError
	SchemaCreateError
	SchemaMigrateError
	SchemaCollationError

	// Store errors
	StoreNotFoundError
	StoreNoLinkError
	StoreUnavailableError
	StoreQueryError
	StoreInsertError

	// Dump parsing errors
	DumpOpenError
	DumpParseError
	DumpDuplicateIDError

	// Ingest errors
	IngestMissingNameError
	IngestCancelledError

	// Lineage errors
	LineageCycleError

	// Annotate errors
	AnnotateReadError
	AnnotateWriteError

	// Metrics errors
	MetricsWriteError

	// Output errors
	OutputFormatError
	OutputEncodeError
)
