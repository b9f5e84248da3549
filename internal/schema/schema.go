package schema

import (
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vvakame/fedlink/internal/link"
)

// FederationSchema is a subgraph document together with its link metadata.
// Methods mutating the document must only be called by the goroutine owning
// the schema for the duration of the call.
type FederationSchema struct {
	doc      *ast.SchemaDocument
	metadata *link.Metadata
}

var _ link.MetadataSource = (*FederationSchema)(nil)

func New(doc *ast.SchemaDocument) (*FederationSchema, error) {
	if doc == nil {
		doc = &ast.SchemaDocument{}
	}
	metadata, err := link.LinksMetadata(doc)
	if err != nil {
		return nil, err
	}
	return &FederationSchema{
		doc:      doc,
		metadata: metadata,
	}, nil
}

func (s *FederationSchema) Document() *ast.SchemaDocument {
	return s.doc
}

// LinksMetadata returns nil when the schema links no spec.
func (s *FederationSchema) LinksMetadata() *link.Metadata {
	if s == nil {
		return nil
	}
	return s.metadata
}

// Type returns the first definition named name, looking at definitions
// before extensions.
func (s *FederationSchema) Type(name string) *ast.Definition {
	if def := s.doc.Definitions.ForName(name); def != nil {
		return def
	}
	return s.doc.Extensions.ForName(name)
}

// typeDefinitions returns the definition and every extension of name.
func (s *FederationSchema) typeDefinitions(name string) []*ast.Definition {
	var defs []*ast.Definition
	for _, def := range s.doc.Definitions {
		if def.Name == name {
			defs = append(defs, def)
		}
	}
	for _, def := range s.doc.Extensions {
		if def.Name == name {
			defs = append(defs, def)
		}
	}
	return defs
}

func (s *FederationSchema) DirectiveDefinition(name string) *ast.DirectiveDefinition {
	return s.doc.Directives.ForName(name)
}

func (s *FederationSchema) InsertType(def *ast.Definition) error {
	if def == nil || !link.IsValidName(def.Name) {
		return link.Errorf(link.ErrSchemaMutation, "cannot insert a type with an invalid name")
	}
	if s.Type(def.Name) != nil {
		return link.Errorf(link.ErrSchemaMutation, "type %q already exists in schema", def.Name)
	}
	s.doc.Definitions = append(s.doc.Definitions, def)
	return nil
}

func (s *FederationSchema) InsertDirectiveDefinition(def *ast.DirectiveDefinition) error {
	if def == nil || !link.IsValidName(def.Name) {
		return link.Errorf(link.ErrSchemaMutation, "cannot insert a directive definition with an invalid name")
	}
	if s.DirectiveDefinition(def.Name) != nil {
		return link.Errorf(link.ErrSchemaMutation, "directive @%s already exists in schema", def.Name)
	}
	s.doc.Directives = append(s.doc.Directives, def)
	return nil
}
