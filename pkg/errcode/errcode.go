package errcode

import (
	"errors"

	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError
	WriteFileError
	CollectFilesError

	// Logging errors
	CreateLogFileError

	// Configuration errors
	ConfigurationInvalidError
	ConfigModeError
	ProfileReadError

	// Database errors
	DBConnectionError
	DBNotConnectedError
	DBTableExistsCheckError
	DBQueryTablesError
	DBScanTableError
	DBDropTableError

	// Schema errors
	SchemaGORMConnectionError
	SchemaCreateError
	SchemaMigrateError
	SchemaIndexError

	// Metadata errors
	ExtractionIncompleteError
	TagReadError

	// Identifier errors
	IdentifierParseError
	DuplicateDetectedError
	RegistrationFailedError
	SequenceLockError

	// Catalog errors
	ConstraintViolationError
	CatalogQueryError
	ItemNotFoundError
	TagTooLongError
	TagInvalidError

	// Storage errors
	StorageConfigError
	UploadFailedError
	DownloadFailedError

	// Derivative errors
	UnsupportedFormatError
	DecodeImageError
	EncodeImageError

	// Mirror errors
	MirrorFailedError

	// Journal errors
	JournalOpenError
	JournalWriteError
	JournalReadError

	// Ingest errors
	IngestNoItemsError
	IngestAllItemsFailedError
)

// Is reports whether err, or any error it wraps, is a *gn.Error with the
// given code.
func Is(err error, code gn.ErrorCode) bool {
	var gnErr *gn.Error
	if errors.As(err, &gnErr) {
		return gnErr.Code == code
	}
	return false
}
