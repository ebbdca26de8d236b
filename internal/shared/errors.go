package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Store errors
	ErrSiteNotFound        = fmt.Errorf("site not found")
	ErrTranslationNotFound = fmt.Errorf("translation not found")
	ErrExportNotFound      = fmt.Errorf("export not found")
	ErrDuplicate           = fmt.Errorf("duplicate record")

	// Export errors
	ErrEmptyRequest       = fmt.Errorf("no sites provided")
	ErrUnclassifiableKey  = fmt.Errorf("key has no recognized prefix")
	ErrStorageUnavailable = fmt.Errorf("archive storage unavailable")
	ErrMalformedFile      = fmt.Errorf("malformed export file")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
