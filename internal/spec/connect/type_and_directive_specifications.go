package connect

import (
	"github.com/hashicorp/go-multierror"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vvakame/fedlink/internal/link"
	"github.com/vvakame/fedlink/internal/schema"
)

const (
	jsonSelectionScalarName    = "JSONSelection"
	urlPathTemplateScalarName  = "URLPathTemplate"
	httpHeaderMappingInputName = "HTTPHeaderMapping"
	connectHTTPInputName       = "ConnectHTTP"
	sourceHTTPInputName        = "SourceHTTP"
)

// for formatter
var blankPos = &ast.Position{
	Src: &ast.Source{
		BuiltIn: false,
	},
}

type typeSpecification struct {
	nameInSpec string
	build      func(l *link.Link) *ast.Definition
}

type directiveSpecification struct {
	nameInSpec string
	build      func(l *link.Link) *ast.DirectiveDefinition
}

func named(name string, nonNull bool) *ast.Type {
	return &ast.Type{
		NamedType: name,
		NonNull:   nonNull,
	}
}

func scalarSpecification(nameInSpec string) *typeSpecification {
	return &typeSpecification{
		nameInSpec: nameInSpec,
		build: func(l *link.Link) *ast.Definition {
			return &ast.Definition{
				Kind:     ast.Scalar,
				Name:     l.TypeNameInSchema(nameInSpec),
				Position: blankPos,
			}
		},
	}
}

func headersField(l *link.Link) *ast.FieldDefinition {
	return &ast.FieldDefinition{
		Name: "headers",
		Type: &ast.Type{
			Elem: named(l.TypeNameInSchema(httpHeaderMappingInputName), true),
		},
	}
}

// types are listed so that a type comes after the types it refers to.
var typeSpecifications = []*typeSpecification{
	scalarSpecification(jsonSelectionScalarName),
	scalarSpecification(urlPathTemplateScalarName),
	{
		nameInSpec: httpHeaderMappingInputName,
		build: func(l *link.Link) *ast.Definition {
			return &ast.Definition{
				Kind: ast.InputObject,
				Name: l.TypeNameInSchema(httpHeaderMappingInputName),
				Fields: ast.FieldList{
					{Name: "name", Type: named("String", true)},
					{Name: "from", Type: named("String", false)},
					{Name: "value", Type: &ast.Type{Elem: named("String", true)}},
				},
				Position: blankPos,
			}
		},
	},
	{
		nameInSpec: connectHTTPInputName,
		build: func(l *link.Link) *ast.Definition {
			urlPathTemplate := l.TypeNameInSchema(urlPathTemplateScalarName)
			return &ast.Definition{
				Kind: ast.InputObject,
				Name: l.TypeNameInSchema(connectHTTPInputName),
				Fields: ast.FieldList{
					{Name: "GET", Type: named(urlPathTemplate, false)},
					{Name: "POST", Type: named(urlPathTemplate, false)},
					{Name: "PUT", Type: named(urlPathTemplate, false)},
					{Name: "PATCH", Type: named(urlPathTemplate, false)},
					{Name: "DELETE", Type: named(urlPathTemplate, false)},
					{Name: "body", Type: named(l.TypeNameInSchema(jsonSelectionScalarName), false)},
					headersField(l),
				},
				Position: blankPos,
			}
		},
	},
	{
		nameInSpec: sourceHTTPInputName,
		build: func(l *link.Link) *ast.Definition {
			return &ast.Definition{
				Kind: ast.InputObject,
				Name: l.TypeNameInSchema(sourceHTTPInputName),
				Fields: ast.FieldList{
					{Name: "baseURL", Type: named("String", true)},
					headersField(l),
				},
				Position: blankPos,
			}
		},
	},
}

var directiveSpecifications = []*directiveSpecification{
	{
		nameInSpec: SourceDirectiveNameInSpec,
		build: func(l *link.Link) *ast.DirectiveDefinition {
			return &ast.DirectiveDefinition{
				Name: SourceDirectiveName(l),
				Arguments: ast.ArgumentDefinitionList{
					{Name: "name", Type: named("String", true)},
					{Name: "http", Type: named(l.TypeNameInSchema(sourceHTTPInputName), false)},
				},
				Locations: []ast.DirectiveLocation{
					ast.LocationSchema,
				},
				IsRepeatable: true,
				Position:     blankPos,
			}
		},
	},
	{
		nameInSpec: ConnectDirectiveNameInSpec,
		build: func(l *link.Link) *ast.DirectiveDefinition {
			return &ast.DirectiveDefinition{
				Name: ConnectDirectiveName(l),
				Arguments: ast.ArgumentDefinitionList{
					{Name: "source", Type: named("String", false)},
					{Name: "http", Type: named(l.TypeNameInSchema(connectHTTPInputName), false)},
					{Name: "selection", Type: named(l.TypeNameInSchema(jsonSelectionScalarName), true)},
					{
						Name: "entity",
						Type: named("Boolean", false),
						DefaultValue: &ast.Value{
							Raw:  "false",
							Kind: ast.BooleanValue,
						},
					},
				},
				Locations: []ast.DirectiveLocation{
					ast.LocationFieldDefinition,
				},
				IsRepeatable: true,
				Position:     blankPos,
			}
		},
	},
}

func checkOrAdd(l *link.Link, s *schema.FederationSchema) error {
	var result *multierror.Error

	for _, spec := range typeSpecifications {
		expected := spec.build(l)
		existing := s.Type(expected.Name)
		if existing == nil {
			result = multierror.Append(result, s.InsertType(expected))
			continue
		}
		result = multierror.Append(result, checkCompatibleType(existing, expected))
	}

	for _, spec := range directiveSpecifications {
		expected := spec.build(l)
		existing := s.DirectiveDefinition(expected.Name)
		if existing == nil {
			result = multierror.Append(result, s.InsertDirectiveDefinition(expected))
			continue
		}
		result = multierror.Append(result, checkCompatibleDirective(existing, expected))
	}

	return result.ErrorOrNil()
}

func checkCompatibleType(existing, expected *ast.Definition) error {
	if existing.Kind != expected.Kind {
		return link.ErrorPosf(existing.Position, link.ErrSchemaMutation, "type %q should be %s but is %s", expected.Name, expected.Kind, existing.Kind)
	}

	var result *multierror.Error
	for _, field := range expected.Fields {
		existingField := existing.Fields.ForName(field.Name)
		if existingField == nil {
			result = multierror.Append(result, link.ErrorPosf(existing.Position, link.ErrSchemaMutation, "type %q is missing field %q", expected.Name, field.Name))
			continue
		}
		if existingField.Type.String() != field.Type.String() {
			result = multierror.Append(result, link.ErrorPosf(existingField.Position, link.ErrSchemaMutation, "field %s.%s should have type %s but has %s", expected.Name, field.Name, field.Type.String(), existingField.Type.String()))
		}
	}
	return result.ErrorOrNil()
}

func checkCompatibleDirective(existing, expected *ast.DirectiveDefinition) error {
	var result *multierror.Error
	for _, arg := range expected.Arguments {
		existingArg := existing.Arguments.ForName(arg.Name)
		if existingArg == nil {
			if arg.Type.NonNull {
				result = multierror.Append(result, link.ErrorPosf(existing.Position, link.ErrSchemaMutation, "directive @%s is missing required argument %q", expected.Name, arg.Name))
			}
			continue
		}
		if existingArg.Type.String() != arg.Type.String() {
			result = multierror.Append(result, link.ErrorPosf(existingArg.Position, link.ErrSchemaMutation, "argument %q of @%s should have type %s but has %s", arg.Name, expected.Name, arg.Type.String(), existingArg.Type.String()))
		}
	}
	for _, location := range expected.Locations {
		var found bool
		for _, existingLocation := range existing.Locations {
			if existingLocation == location {
				found = true
				break
			}
		}
		if !found {
			result = multierror.Append(result, link.ErrorPosf(existing.Position, link.ErrSchemaMutation, "directive @%s should be allowed on %s", expected.Name, location))
		}
	}
	return result.ErrorOrNil()
}
