package link

import (
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
)

type Purpose string

const (
	PurposeSecurity  Purpose = "SECURITY"
	PurposeExecution Purpose = "EXECUTION"
)

func parsePurpose(s string) (Purpose, bool) {
	switch Purpose(s) {
	case PurposeSecurity, PurposeExecution:
		return Purpose(s), true
	default:
		return "", false
	}
}

// Import is one element of @link(import:).
// Element and Alias are stored without the leading '@'.
type Import struct {
	Element     string
	IsDirective bool
	Alias       string
}

func (imp *Import) ElementDisplayName() string {
	if imp.IsDirective {
		return "@" + imp.Element
	}
	return imp.Element
}

// ImportedName is the name the element carries in the importing schema.
func (imp *Import) ImportedName() string {
	if imp.Alias != "" {
		return imp.Alias
	}
	return imp.Element
}

func (imp *Import) String() string {
	if imp.Alias == "" {
		return imp.ElementDisplayName()
	}
	alias := imp.Alias
	if imp.IsDirective {
		alias = "@" + alias
	}
	return fmt.Sprintf("{ name: %q, as: %q }", imp.ElementDisplayName(), alias)
}

// Link is a schema's import of one spec version.
type Link struct {
	URL       Url
	SpecAlias string
	Imports   []*Import
	Purpose   Purpose

	Position *ast.Position
}

func (l *Link) SpecNameInSchema() string {
	if l.SpecAlias != "" {
		return l.SpecAlias
	}
	return l.URL.Identity.Name
}

func (l *Link) importFor(element string, isDirective bool) *Import {
	for _, imp := range l.Imports {
		if imp.IsDirective == isDirective && imp.Element == element {
			return imp
		}
	}
	return nil
}

// DirectiveNameInSchema returns the name of the spec directive nameInSpec in
// the linking schema. Imported directives keep their (possibly aliased) name,
// others are qualified by the spec name, except the directive named like the
// spec itself.
func (l *Link) DirectiveNameInSchema(nameInSpec string) string {
	if imp := l.importFor(nameInSpec, true); imp != nil {
		return imp.ImportedName()
	}
	if nameInSpec == l.URL.Identity.Name {
		return l.SpecNameInSchema()
	}
	return fmt.Sprintf("%s__%s", l.SpecNameInSchema(), nameInSpec)
}

func (l *Link) TypeNameInSchema(nameInSpec string) string {
	if imp := l.importFor(nameInSpec, false); imp != nil {
		return imp.ImportedName()
	}
	return fmt.Sprintf("%s__%s", l.SpecNameInSchema(), nameInSpec)
}

// DirectiveRenames returns the explicit directive imports of l as
// name in spec => name in schema.
func (l *Link) DirectiveRenames() map[string]string {
	renames := make(map[string]string)
	for _, imp := range l.Imports {
		if imp.IsDirective {
			renames[imp.Element] = imp.ImportedName()
		}
	}
	return renames
}

func (l *Link) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "@link(url: %q", l.URL.String())
	if l.SpecAlias != "" {
		fmt.Fprintf(&b, ", as: %q", l.SpecAlias)
	}
	if len(l.Imports) != 0 {
		imports := make([]string, 0, len(l.Imports))
		for _, imp := range l.Imports {
			if imp.Alias == "" {
				imports = append(imports, fmt.Sprintf("%q", imp.ElementDisplayName()))
			} else {
				imports = append(imports, imp.String())
			}
		}
		fmt.Fprintf(&b, ", import: [%s]", strings.Join(imports, ", "))
	}
	if l.Purpose != "" {
		fmt.Fprintf(&b, ", for: %s", l.Purpose)
	}
	b.WriteString(")")
	return b.String()
}

// Metadata is the read-only view of every link declared by a schema.
type Metadata struct {
	links      []*Link
	byIdentity map[Identity]*Link
	byName     map[string]*Link
	// directive name in schema => link importing it explicitly
	importedDirectives map[string]*Link
}

// MetadataSource is anything link metadata can be read from.
type MetadataSource interface {
	LinksMetadata() *Metadata
}

// LinksMetadata lets a *Metadata be used directly as a MetadataSource.
func (m *Metadata) LinksMetadata() *Metadata {
	return m
}

func (m *Metadata) Links() []*Link {
	if m == nil {
		return nil
	}
	return append([]*Link{}, m.links...)
}

func (m *Metadata) ForIdentity(identity Identity) *Link {
	if m == nil {
		return nil
	}
	return m.byIdentity[identity]
}

// LinkSpec returns the link bootstrapping the others (@link or @core).
func (m *Metadata) LinkSpec() *Link {
	if m == nil {
		return nil
	}
	if l := m.byIdentity[LinkIdentity()]; l != nil {
		return l
	}
	return m.byIdentity[CoreIdentity()]
}

// SourceLinkOfDirective finds the link a directive used in the schema comes
// from, either by explicit import or by its "spec__" prefix.
func (m *Metadata) SourceLinkOfDirective(nameInSchema string) (*Link, string) {
	if m == nil {
		return nil, ""
	}
	if l := m.importedDirectives[nameInSchema]; l != nil {
		for _, imp := range l.Imports {
			if imp.IsDirective && imp.ImportedName() == nameInSchema {
				return l, imp.Element
			}
		}
	}
	if l := m.byName[nameInSchema]; l != nil {
		return l, l.URL.Identity.Name
	}
	if specName, element, ok := strings.Cut(nameInSchema, "__"); ok && element != "" {
		if l := m.byName[specName]; l != nil {
			return l, element
		}
	}
	return nil, ""
}

func newMetadata(links []*Link) (*Metadata, error) {
	m := &Metadata{
		byIdentity:         make(map[Identity]*Link),
		byName:             make(map[string]*Link),
		importedDirectives: make(map[string]*Link),
	}
	for _, l := range links {
		if prev := m.byIdentity[l.URL.Identity]; prev != nil {
			return nil, ErrorPosf(l.Position, ErrInvalidLinkDirectiveUsage, "duplicate @link for %s: %s and %s", l.URL.Identity, prev.URL, l.URL)
		}
		if prev := m.byName[l.SpecNameInSchema()]; prev != nil {
			return nil, ErrorPosf(l.Position, ErrInvalidLinkDirectiveUsage, "name %q is used by both %s and %s", l.SpecNameInSchema(), prev.URL, l.URL)
		}
		for _, imp := range l.Imports {
			if !imp.IsDirective {
				continue
			}
			if prev := m.importedDirectives[imp.ImportedName()]; prev != nil {
				return nil, ErrorPosf(l.Position, ErrInvalidLinkDirectiveUsage, "directive @%s is imported by both %s and %s", imp.ImportedName(), prev.URL, l.URL)
			}
			m.importedDirectives[imp.ImportedName()] = l
		}
		m.byIdentity[l.URL.Identity] = l
		m.byName[l.SpecNameInSchema()] = l
		m.links = append(m.links, l)
	}
	return m, nil
}
