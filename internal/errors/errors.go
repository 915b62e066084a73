// Package errors provides the error definitions shared across screencoord:
// sentinel errors, typed errors carrying context, and classification helpers.
//
// # Error Types
//
// Domain errors belong to a subsystem:
//   - DocumentError: item tree operations (rename, move, group, remove)
//   - StoreError: loading or saving the document
//   - CaptureError: opening the overlay window or grabbing the screen
//
// Semantic errors describe a condition:
//   - NotFoundError: an item, folder or file does not exist
//   - ValidationError: invalid input or state
//
// # Usage
//
//	err := errors.NewStoreError("failed to save document", ioErr).WithPath(path)
//	if errors.Is(err, errors.ErrStoreCorrupted) { ... }
//
//	var nf *errors.NotFoundError
//	if errors.As(err, &nf) { ... }
//
//	if errors.IsUserFacing(err) { fmt.Fprintln(os.Stderr, err) }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-exported so callers only need this package.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity ranks how serious an error is.
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Document sentinel errors
var (
	// ErrItemNotFound indicates no item has the requested ID.
	ErrItemNotFound = New("item not found")
	// ErrNotFolder indicates an operation needed a folder but got another kind.
	ErrNotFolder = New("item is not a folder")
	// ErrInvalidMove indicates a folder was moved into itself or a descendant.
	ErrInvalidMove = New("cannot move a folder into itself")
	// ErrEmptyName indicates a rename to the empty string.
	ErrEmptyName = New("name cannot be empty")
)

// Store sentinel errors
var (
	// ErrStoreCorrupted indicates the saved document could not be parsed.
	ErrStoreCorrupted = New("saved document is corrupted")
	// ErrUnknownBackend indicates an unsupported store backend name.
	ErrUnknownBackend = New("unknown store backend")
	// ErrSchemaTooNew indicates the database was written by a newer version.
	ErrSchemaTooNew = New("database schema is newer than supported")
)

// Capture sentinel errors
var (
	// ErrNoDisplay indicates there is no display to open the overlay on.
	ErrNoDisplay = New("no display available")
	// ErrNoScreenshotTool indicates no supported screenshot tool is installed.
	ErrNoScreenshotTool = New("no screenshot tool available")
)

// General sentinel errors
var (
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
	// ErrCanceled indicates the user canceled an operation.
	ErrCanceled = New("operation canceled")
)

// ScreencoordError is implemented by every typed error in this package.
type ScreencoordError interface {
	error
	Unwrap() error
	Is(target error) bool
	Severity() Severity
	IsRetryable() bool
	IsUserFacing() bool
}

type baseError struct {
	message    string
	cause      error
	severity   Severity
	retryable  bool
	userFacing bool
}

func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *baseError) Unwrap() error { return e.cause }

func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

func (e *baseError) Severity() Severity { return e.severity }
func (e *baseError) IsRetryable() bool  { return e.retryable }
func (e *baseError) IsUserFacing() bool { return e.userFacing }

// format renders "prefix [k=v, ...]: message: cause".
func (e *baseError) format(prefix string, parts []string) string {
	if len(parts) > 0 {
		prefix = fmt.Sprintf("%s [%s]", prefix, strings.Join(parts, ", "))
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// DocumentError is a failed operation on the item tree.
//
// Example:
//
//	err := errors.NewDocumentError("cannot group items", errors.ErrItemNotFound).WithItemID(id)
//	fmt.Println(err) // "document error [item=01J...]: cannot group items: item not found"
type DocumentError struct {
	baseError
	ItemID string
	Op     string
}

// NewDocumentError creates a DocumentError.
func NewDocumentError(message string, cause error) *DocumentError {
	return &DocumentError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
	}
}

// WithItemID records the item the operation addressed.
func (e *DocumentError) WithItemID(id string) *DocumentError {
	e.ItemID = id
	return e
}

// WithOp records the operation name.
func (e *DocumentError) WithOp(op string) *DocumentError {
	e.Op = op
	return e
}

func (e *DocumentError) Error() string {
	var parts []string
	if e.Op != "" {
		parts = append(parts, "op="+e.Op)
	}
	if e.ItemID != "" {
		parts = append(parts, "item="+e.ItemID)
	}
	return e.format("document error", parts)
}

func (e *DocumentError) Is(target error) bool {
	if _, ok := target.(*DocumentError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// StoreError is a failure reading or writing persisted data.
type StoreError struct {
	baseError
	Backend string
	Path    string
}

// NewStoreError creates a StoreError.
func NewStoreError(message string, cause error) *StoreError {
	return &StoreError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
	}
}

// WithBackend records the backend name ("json", "sqlite").
func (e *StoreError) WithBackend(b string) *StoreError {
	e.Backend = b
	return e
}

// WithPath records the file involved.
func (e *StoreError) WithPath(p string) *StoreError {
	e.Path = p
	return e
}

// WithRetryable marks transient failures such as a locked database.
func (e *StoreError) WithRetryable(r bool) *StoreError {
	e.retryable = r
	return e
}

func (e *StoreError) Error() string {
	var parts []string
	if e.Backend != "" {
		parts = append(parts, "backend="+e.Backend)
	}
	if e.Path != "" {
		parts = append(parts, "path="+e.Path)
	}
	return e.format("store error", parts)
}

func (e *StoreError) Is(target error) bool {
	if _, ok := target.(*StoreError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// CaptureError is a failure to start or run the capture overlay.
type CaptureError struct {
	baseError
	Tool string
}

// NewCaptureError creates a CaptureError.
func NewCaptureError(message string, cause error) *CaptureError {
	return &CaptureError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
	}
}

// WithTool records the external tool involved, such as a screenshot utility.
func (e *CaptureError) WithTool(tool string) *CaptureError {
	e.Tool = tool
	return e
}

// WithSeverity overrides the default severity.
func (e *CaptureError) WithSeverity(s Severity) *CaptureError {
	e.severity = s
	return e
}

func (e *CaptureError) Error() string {
	var parts []string
	if e.Tool != "" {
		parts = append(parts, "tool="+e.Tool)
	}
	return e.format("capture error", parts)
}

func (e *CaptureError) Is(target error) bool {
	if _, ok := target.(*CaptureError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// NotFoundError is a missing resource.
//
// Example:
//
//	err := errors.NewNotFoundError("item", "01J...")
//	fmt.Println(err) // "item '01J...' not found"
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:    fmt.Sprintf("%s '%s' not found", resourceType, resourceID),
			severity:   SeverityWarning,
			userFacing: true,
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// WithCause sets the underlying error.
func (e *NotFoundError) WithCause(cause error) *NotFoundError {
	e.cause = cause
	return e
}

func (e *NotFoundError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s '%s' not found: %v", e.ResourceType, e.ResourceID, e.cause)
	}
	return fmt.Sprintf("%s '%s' not found", e.ResourceType, e.ResourceID)
}

// Is matches any *NotFoundError and ErrItemNotFound for item resources.
func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	if e.ResourceType == "item" && target == ErrItemNotFound {
		return true
	}
	return e.baseError.Is(target)
}

// ValidationError is invalid input or state.
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			userFacing: true,
		},
	}
}

// WithField records the offending field.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue records the offending value.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause sets the underlying error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, "field="+e.Field)
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}
	return e.format("validation error", parts)
}

func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if target == ErrInvalidInput {
		return true
	}
	return e.baseError.Is(target)
}

// IsNotFound reports whether err is a NotFoundError or wraps ErrItemNotFound.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return As(err, &nf) || Is(err, ErrItemNotFound)
}

// IsRetryable reports whether err is marked transient.
func IsRetryable(err error) bool {
	var se ScreencoordError
	if As(err, &se) {
		return se.IsRetryable()
	}
	return false
}

// IsUserFacing reports whether err's message is fit to print to users.
func IsUserFacing(err error) bool {
	var se ScreencoordError
	if As(err, &se) {
		return se.IsUserFacing()
	}
	return false
}

// GetSeverity returns err's severity, SeverityError for foreign errors.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}
	var se ScreencoordError
	if As(err, &se) {
		return se.Severity()
	}
	return SeverityError
}

// Wrap prefixes err with message. It returns nil for a nil err.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

