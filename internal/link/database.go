package link

import (
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
)

func schemaDirectives(doc *ast.SchemaDocument) ast.DirectiveList {
	var directives ast.DirectiveList
	for _, def := range doc.Schema {
		directives = append(directives, def.Directives...)
	}
	for _, def := range doc.SchemaExtension {
		directives = append(directives, def.Directives...)
	}
	return directives
}

func stringArgument(directive *ast.Directive, name string) (string, bool) {
	arg := directive.Arguments.ForName(name)
	if arg == nil || arg.Value == nil {
		return "", false
	}
	switch arg.Value.Kind {
	case ast.StringValue, ast.BlockValue:
		return arg.Value.Raw, true
	default:
		return "", false
	}
}

// bootstrap finds the directive declaring the link (or legacy core) spec
// itself and returns the name the schema uses for it.
func bootstrap(directives ast.DirectiveList) (string, string, bool) {
	for _, directive := range directives {
		for _, argName := range []string{"url", "feature"} {
			raw, ok := stringArgument(directive, argName)
			if !ok {
				continue
			}
			u, err := ParseUrl(raw)
			if err != nil {
				continue
			}
			switch {
			case argName == "url" && u.Identity == LinkIdentity():
			case argName == "feature" && u.Identity == CoreIdentity():
			default:
				continue
			}
			expectedName := u.Identity.Name
			if alias, ok := stringArgument(directive, "as"); ok {
				expectedName = alias
			}
			if directive.Name == expectedName {
				return directive.Name, argName, true
			}
		}
	}
	return "", "", false
}

// LinksMetadata extracts every @link (or @core) declared on the schema
// definitions and extensions of doc. It returns nil when doc links nothing.
func LinksMetadata(doc *ast.SchemaDocument) (*Metadata, error) {
	if doc == nil {
		return nil, nil
	}
	directives := schemaDirectives(doc)
	bootstrapName, urlArgName, ok := bootstrap(directives)
	if !ok {
		return nil, nil
	}

	var links []*Link
	for _, directive := range directives.ForNames(bootstrapName) {
		l, err := parseLinkDirective(directive, urlArgName)
		if err != nil {
			return nil, err
		}
		links = append(links, l)
	}

	return newMetadata(links)
}

func parseLinkDirective(directive *ast.Directive, urlArgName string) (*Link, error) {
	raw, ok := stringArgument(directive, urlArgName)
	if !ok {
		return nil, ErrorPosf(directive.Position, ErrInvalidLinkDirectiveUsage, "@%s requires a string %q argument", directive.Name, urlArgName)
	}
	u, err := ParseUrl(raw)
	if err != nil {
		if e, ok := err.(*Error); ok && e.Position == nil {
			e.Position = directive.Position
		}
		return nil, err
	}

	l := &Link{
		URL:      u,
		Position: directive.Position,
	}

	if arg := directive.Arguments.ForName("as"); arg != nil && arg.Value != nil && arg.Value.Kind != ast.NullValue {
		alias, ok := stringArgument(directive, "as")
		if !ok || alias == "" || strings.HasPrefix(alias, "@") {
			return nil, ErrorPosf(arg.Position, ErrInvalidLinkDirectiveUsage, "invalid \"as\" argument for %s", u)
		}
		l.SpecAlias = alias
	}

	if arg := directive.Arguments.ForName("import"); arg != nil && arg.Value != nil {
		imports, err := parseImports(arg.Value, u)
		if err != nil {
			return nil, err
		}
		l.Imports = imports
	}

	if arg := directive.Arguments.ForName("for"); arg != nil && arg.Value != nil && arg.Value.Kind != ast.NullValue {
		if arg.Value.Kind != ast.EnumValue {
			return nil, ErrorPosf(arg.Value.Position, ErrInvalidLinkDirectiveUsage, "\"for\" argument of %s must be an enum value", u)
		}
		purpose, ok := parsePurpose(arg.Value.Raw)
		if !ok {
			return nil, ErrorPosf(arg.Value.Position, ErrInvalidLinkDirectiveUsage, "unknown purpose %q for %s", arg.Value.Raw, u)
		}
		l.Purpose = purpose
	}

	return l, nil
}

func parseImports(value *ast.Value, u Url) ([]*Import, error) {
	var values []*ast.Value
	switch value.Kind {
	case ast.NullValue:
		return nil, nil
	case ast.ListValue:
		for _, child := range value.Children {
			values = append(values, child.Value)
		}
	default:
		// a single value is coerced into a one element list
		values = append(values, value)
	}

	imports := make([]*Import, 0, len(values))
	for _, v := range values {
		imp, err := parseImport(v, u)
		if err != nil {
			return nil, err
		}
		imports = append(imports, imp)
	}
	return imports, nil
}

func parseImport(v *ast.Value, u Url) (*Import, error) {
	switch v.Kind {
	case ast.StringValue, ast.BlockValue:
		element := v.Raw
		if element == "" || element == "@" {
			return nil, ErrorPosf(v.Position, ErrInvalidLinkDirectiveUsage, "empty import for %s", u)
		}
		name, isDirective := strings.CutPrefix(element, "@")
		return &Import{Element: name, IsDirective: isDirective}, nil

	case ast.ObjectValue:
		var element, alias string
		for _, child := range v.Children {
			if child.Value == nil || (child.Value.Kind != ast.StringValue && child.Value.Kind != ast.BlockValue) {
				return nil, ErrorPosf(v.Position, ErrInvalidLinkDirectiveUsage, "import field %q for %s must be a string", child.Name, u)
			}
			switch child.Name {
			case "name":
				element = child.Value.Raw
			case "as":
				alias = child.Value.Raw
			default:
				return nil, ErrorPosf(v.Position, ErrInvalidLinkDirectiveUsage, "unknown import field %q for %s", child.Name, u)
			}
		}
		if element == "" || element == "@" {
			return nil, ErrorPosf(v.Position, ErrInvalidLinkDirectiveUsage, "import for %s is missing its \"name\"", u)
		}
		name, isDirective := strings.CutPrefix(element, "@")
		if alias == "" {
			return &Import{Element: name, IsDirective: isDirective}, nil
		}
		aliasName, aliasIsDirective := strings.CutPrefix(alias, "@")
		if aliasIsDirective != isDirective || aliasName == "" {
			if isDirective {
				return nil, ErrorPosf(v.Position, ErrInvalidLinkDirectiveUsage, "directive %q imported from %s must be aliased to a directive name, got %q", element, u, alias)
			}
			return nil, ErrorPosf(v.Position, ErrInvalidLinkDirectiveUsage, "type %q imported from %s cannot be aliased to a directive name %q", element, u, alias)
		}
		return &Import{Element: name, IsDirective: isDirective, Alias: aliasName}, nil

	default:
		return nil, ErrorPosf(v.Position, ErrInvalidLinkDirectiveUsage, "invalid import value %s for %s", v.String(), u)
	}
}
