package link

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// ErrorKind classifies errors produced while resolving or applying specs.
// Every kind is an error itself, so callers can test with errors.Is.
type ErrorKind string

func (k ErrorKind) Error() string {
	return string(k)
}

const (
	ErrMalformedSpecURL              ErrorKind = "MALFORMED_SPEC_URL"
	ErrUnknownSpecVersion            ErrorKind = "UNKNOWN_SPEC_VERSION"
	ErrDirectiveNameResolution       ErrorKind = "DIRECTIVE_NAME_RESOLUTION_FAILURE"
	ErrConflictingDirectiveInsertion ErrorKind = "CONFLICTING_DIRECTIVE_INSERTION"
	ErrSchemaMutation                ErrorKind = "SCHEMA_MUTATION_FAILURE"
	ErrInvalidLinkDirectiveUsage     ErrorKind = "INVALID_LINK_DIRECTIVE_USAGE"
	ErrUnsupportedFederationVersion  ErrorKind = "UNSUPPORTED_FEDERATION_VERSION"
)

type Error struct {
	Kind     ErrorKind
	Message  string
	Position *ast.Position
	Err      error
}

var _ error = (*Error)(nil)

func Errorf(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

func ErrorPosf(pos *ast.Position, kind ErrorKind, format string, args ...interface{}) *Error {
	err := Errorf(kind, format, args...)
	err.Position = pos
	return err
}

// WrapError classifies err as kind. errors.Is still reaches err's own chain.
func WrapError(kind ErrorKind, err error, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s", msg, e.Err.Error())
	}
	if e.Position != nil && e.Position.Src != nil && e.Position.Src.Name != "" {
		return fmt.Sprintf("%s:%d: [%s] %s", e.Position.Src.Name, e.Position.Line, e.Kind, msg)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	kind, ok := target.(ErrorKind)
	return ok && kind == e.Kind
}

// GQLError converts e into a diagnostic shaped like the validation errors
// reported by composition.
func (e *Error) GQLError() *gqlerror.Error {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s", msg, e.Err.Error())
	}

	var gErr *gqlerror.Error
	if e.Position != nil && e.Position.Src != nil {
		gErr = gqlerror.ErrorPosf(e.Position, "%s", msg)
	} else {
		gErr = gqlerror.Errorf("%s", msg)
	}
	if gErr.Extensions == nil {
		gErr.Extensions = make(map[string]interface{})
	}
	gErr.Extensions["code"] = string(e.Kind)
	return gErr
}
