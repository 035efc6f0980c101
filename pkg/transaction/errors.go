package transaction

import "fmt"

// ErrorCode classifies codec failures.
//
// None of these are transient: they mean either the input data is malformed
// or a buffer was sized incorrectly by the caller.
type ErrorCode string

const (
	CodeOutOfBounds       ErrorCode = "OUT_OF_BOUNDS"      // Read or write past the buffer end
	CodeRange             ErrorCode = "RANGE"              // Value does not fit the target width
	CodeSizeMismatch      ErrorCode = "SIZE_MISMATCH"      // Buffer not exactly filled at End
	CodeNonCanonical      ErrorCode = "NON_CANONICAL"      // CompactSize with a longer form than needed
	CodeInvalidCommitment ErrorCode = "INVALID_COMMITMENT" // Strict mode rejected a commitment
	CodeTrailingData      ErrorCode = "TRAILING_DATA"      // Parse left bytes unread
)

// CodecError is returned by Writer, Reader, Serialize and Parse.
type CodecError struct {
	Code   ErrorCode // Failure class
	Op     string    // Codec operation, e.g. "WriteUInt32"
	Offset int       // Cursor position when the failure happened
	Need   int       // Bytes the operation required
	Len    int       // Total buffer length
	Cause  error     // Underlying error (if any)
}

func (e *CodecError) Error() string {
	var msg string
	switch e.Code {
	case CodeOutOfBounds:
		msg = fmt.Sprintf("need %d bytes at offset %d, buffer is %d bytes",
			e.Need, e.Offset, e.Len)
	case CodeSizeMismatch:
		msg = fmt.Sprintf("buffer size %d, offset %d", e.Len, e.Offset)
	case CodeTrailingData:
		msg = fmt.Sprintf("%d bytes left after offset %d", e.Len-e.Offset, e.Offset)
	default:
		msg = fmt.Sprintf("at offset %d", e.Offset)
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s [%s]: %s: %v", e.Op, e.Code, msg, e.Cause)
	}
	return fmt.Sprintf("%s [%s]: %s", e.Op, e.Code, msg)
}

func (e *CodecError) Unwrap() error {
	return e.Cause
}

// Is matches any CodecError with the same code, so callers can write
// errors.Is(err, transaction.ErrOutOfBounds).
func (e *CodecError) Is(target error) bool {
	t, ok := target.(*CodecError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is.
var (
	ErrOutOfBounds       = &CodecError{Code: CodeOutOfBounds}
	ErrRange             = &CodecError{Code: CodeRange}
	ErrSizeMismatch      = &CodecError{Code: CodeSizeMismatch}
	ErrNonCanonical      = &CodecError{Code: CodeNonCanonical}
	ErrInvalidCommitment = &CodecError{Code: CodeInvalidCommitment}
	ErrTrailingData      = &CodecError{Code: CodeTrailingData}
)

func boundsErr(op string, offset, need, length int) error {
	return &CodecError{
		Code:   CodeOutOfBounds,
		Op:     op,
		Offset: offset,
		Need:   need,
		Len:    length,
	}
}
