// Package validation checks directive attributes against JSON schemas.
package validation

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	ErrSchemaInvalid     = errors.New("validation: directive schema invalid")
	ErrAttributesInvalid = errors.New("validation: directive attributes invalid")
)

// Issue is a single schema violation.
type Issue struct {
	Location string
	Message  string
}

// AttributeError lists every violation found for one directive.
type AttributeError struct {
	Directive string
	Issues    []Issue
	Cause     error
}

func (e *AttributeError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrAttributesInvalid.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := issue.Location
		if location == "" {
			location = "#"
		} else if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		parts = append(parts, location+": "+issue.Message)
	}
	return strings.Join(parts, "; ")
}

func (e *AttributeError) Unwrap() error {
	return ErrAttributesInvalid
}

// Issues extracts violations from an error returned by ValidateAttributes.
func Issues(err error) []Issue {
	if err == nil {
		return nil
	}
	var attrErr *AttributeError
	if errors.As(err, &attrErr) && attrErr != nil {
		return attrErr.Issues
	}
	var schemaErr *jsonschema.ValidationError
	if errors.As(err, &schemaErr) && schemaErr != nil {
		return collectIssues(schemaErr)
	}
	return []Issue{{Message: err.Error()}}
}

// DirectiveSchemas holds one compiled schema per directive name. Directives
// without a schema always validate.
type DirectiveSchemas struct {
	mu      sync.RWMutex
	schemas map[string]*jsonschema.Schema
}

func NewDirectiveSchemas() *DirectiveSchemas {
	return &DirectiveSchemas{schemas: make(map[string]*jsonschema.Schema)}
}

// Register compiles schema (a JSON document, draft 2020-12) for name,
// replacing any previous schema.
func (s *DirectiveSchemas) Register(name, schema string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: empty directive name", ErrSchemaInvalid)
	}
	compiled, err := compile(name, schema)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSchemaInvalid, name, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schemas[name] = compiled
	return nil
}

// Names lists directives with a registered schema.
func (s *DirectiveSchemas) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.schemas))
	for name := range s.schemas {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ValidateAttributes validates attributes as a JSON object of strings.
func (s *DirectiveSchemas) ValidateAttributes(name string, attributes map[string]string) error {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	compiled, ok := s.schemas[name]
	s.mu.RUnlock()
	if !ok {
		return nil
	}
	payload := make(map[string]any, len(attributes))
	for key, value := range attributes {
		payload[key] = value
	}
	if err := compiled.Validate(payload); err != nil {
		return &AttributeError{Directive: name, Issues: Issues(err), Cause: err}
	}
	return nil
}

func compile(name, schema string) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	url := "directive_" + name + ".json"
	if err := compiler.AddResource(url, strings.NewReader(schema)); err != nil {
		return nil, err
	}
	return compiler.Compile(url)
}

func collectIssues(err *jsonschema.ValidationError) []Issue {
	var issues []Issue
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, Issue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
