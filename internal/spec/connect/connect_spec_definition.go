package connect

import (
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vvakame/fedlink/internal/link"
	"github.com/vvakame/fedlink/internal/schema"
)

const (
	ConnectDirectiveNameInSpec = "connect"
	SourceDirectiveNameInSpec  = "source"
)

type SpecDefinition struct {
	link.BaseSpecDefinition
}

var _ link.SpecDefinition = (*SpecDefinition)(nil)

// Versions is the registry of every connect spec version this build knows.
type Versions = link.SpecDefinitions[*SpecDefinition]

func NewSpecDefinition(version link.Version, minimumFederationVersion *link.Version) *SpecDefinition {
	return &SpecDefinition{
		BaseSpecDefinition: link.NewBaseSpecDefinition(
			link.Url{Identity: link.ConnectIdentity(), Version: version},
			minimumFederationVersion,
		),
	}
}

func NewVersions() (*Versions, error) {
	definitions := link.NewSpecDefinitions[*SpecDefinition](link.ConnectIdentity())
	err := definitions.Add(NewSpecDefinition(
		link.Version{Major: 0, Minor: 1},
		&link.Version{Major: 2, Minor: 8},
	))
	if err != nil {
		return nil, err
	}
	definitions.Freeze()
	return definitions, nil
}

// FromDirective returns the connect spec version directive links to.
// A directive without a string url argument isn't a link and yields nil, as
// does a url of another spec or of a version this build doesn't know.
func FromDirective(versions *Versions, directive *ast.Directive) (*SpecDefinition, error) {
	if directive == nil {
		return nil, nil
	}
	arg := directive.Arguments.ForName("url")
	if arg == nil || arg.Value == nil {
		return nil, nil
	}
	if arg.Value.Kind != ast.StringValue && arg.Value.Kind != ast.BlockValue {
		return nil, nil
	}

	u, err := link.ParseUrl(arg.Value.Raw)
	if err != nil {
		if e, ok := err.(*link.Error); ok && e.Position == nil {
			e.Position = arg.Value.Position
		}
		return nil, err
	}
	if u.Identity != link.ConnectIdentity() {
		return nil, nil
	}

	def, ok := versions.Find(u.Version)
	if !ok {
		return nil, nil
	}
	return def, nil
}

// GetFromSchema finds the connect spec linked by doc.
func GetFromSchema(versions *Versions, doc *ast.SchemaDocument) (*SpecDefinition, *link.Link, error) {
	metadata, err := link.LinksMetadata(doc)
	if err != nil {
		return nil, nil, err
	}
	l := metadata.ForIdentity(link.ConnectIdentity())
	if l == nil {
		return nil, nil, nil
	}
	def, ok := versions.Find(l.URL.Version)
	if !ok {
		return nil, nil, nil
	}
	return def, l, nil
}

func GetFromFederationSchema(versions *Versions, s *schema.FederationSchema) (*SpecDefinition, error) {
	l := s.LinksMetadata().ForIdentity(link.ConnectIdentity())
	if l == nil {
		return nil, nil
	}
	def, ok := versions.Find(l.URL.Version)
	if !ok {
		return nil, nil
	}
	return def, nil
}

// CheckOrAdd makes sure every type and directive of the connect spec linked
// by s is defined, adding the missing ones. Definitions already present are
// never altered, those not matching the spec are reported.
func CheckOrAdd(versions *Versions, s *schema.FederationSchema) error {
	l := s.LinksMetadata().ForIdentity(link.ConnectIdentity())
	if l == nil {
		return nil
	}
	if _, ok := versions.Find(l.URL.Version); !ok {
		return link.ErrorPosf(l.Position, link.ErrUnknownSpecVersion, "unknown version %s of %s, known versions are %v", l.URL.Version, l.URL.Identity, versions.Versions())
	}

	return checkOrAdd(l, s)
}

func SourceDirectiveName(l *link.Link) string {
	return l.DirectiveNameInSchema(SourceDirectiveNameInSpec)
}

func ConnectDirectiveName(l *link.Link) string {
	return l.DirectiveNameInSchema(ConnectDirectiveNameInSpec)
}
