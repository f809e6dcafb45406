package projection

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-markview/pkg/mdast"
)

// Diagnostic codes reported on Result.Diagnostics.
const (
	CodeUnresolvedComponent  = "UNRESOLVED_COMPONENT"
	CodeUnresolvedDirective  = "UNRESOLVED_DIRECTIVE"
	CodeUnresolvedReference  = "UNRESOLVED_REFERENCE"
	CodeUnresolvedFootnote   = "UNRESOLVED_FOOTNOTE"
	CodeMissingContext       = "MISSING_CONTEXT"
	CodeInvalidDirectiveAttr = "INVALID_DIRECTIVE_ATTRIBUTES"
	CodeRenderPanic          = "RENDER_PANIC"
	CodeParseFrontmatter     = "PARSE_FRONTMATTER"
)

var (
	ErrUnresolvedComponent = errors.New("projection: no renderable unit registered")
	ErrUnresolvedDirective = errors.New("projection: no component registered for directive")
	ErrUnresolvedReference = errors.New("projection: no definition for reference")
	ErrUnresolvedFootnote  = errors.New("projection: no footnote definition for reference")
	ErrMissingContext      = errors.New("projection: node rendered without its parent context")
	ErrRenderPanic         = errors.New("projection: node render panicked")
)

// FrontmatterDiagnostic reports a metadata block the parser kept verbatim
// but could not decode. The node may be nil.
func FrontmatterDiagnostic(cause error, n mdast.Node) Diagnostic {
	return newDiagnostic(CodeParseFrontmatter, goerrors.CategoryValidation, cause, n, "", "frontmatter could not be decoded")
}

// ContainerDiagnostic reports a section wrapper, such as the footnote
// container, that has no unit registered under key.
func ContainerDiagnostic(key string) Diagnostic {
	return newDiagnostic(CodeUnresolvedComponent, goerrors.CategoryNotFound, ErrUnresolvedComponent, nil, key,
		fmt.Sprintf("no component found for node type: %s", key))
}

// Diagnostic describes one node that degraded to an empty contribution.
// The pass itself always completes.
type Diagnostic struct {
	Code       string          `json:"code"`
	Message    string          `json:"message"`
	Kind       mdast.Kind      `json:"kind"`
	Identifier string          `json:"identifier,omitempty"`
	Position   *mdast.Position `json:"position,omitempty"`
	Err        *goerrors.Error `json:"-"`
}

func (d Diagnostic) Error() string {
	if d.Position != nil {
		return fmt.Sprintf("%s at %d:%d: %s", d.Code, d.Position.Start.Line, d.Position.Start.Column, d.Message)
	}
	return d.Code + ": " + d.Message
}

// Unwrap exposes the categorised error so errors.Is and goerrors.IsCategory
// work on diagnostics.
func (d Diagnostic) Unwrap() error {
	if d.Err == nil {
		return nil
	}
	return d.Err
}

func newDiagnostic(code string, category goerrors.Category, cause error, n mdast.Node, identifier, message string) Diagnostic {
	d := Diagnostic{
		Code:       code,
		Message:    message,
		Identifier: identifier,
		Err:        goerrors.Wrap(cause, category, message).WithTextCode(code),
	}
	if n != nil {
		d.Kind = n.Kind()
		d.Position = n.Pos()
	}
	return d
}
