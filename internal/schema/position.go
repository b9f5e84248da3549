package schema

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vvakame/fedlink/internal/link"
)

// SameDirective compares directive applications by name and argument values.
// Argument order and input object field order are not significant, positions
// are ignored. An application repeating an argument never matches.
func SameDirective(a, b *ast.Directive) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Name != b.Name || len(a.Arguments) != len(b.Arguments) {
		return false
	}
	if hasDuplicateArgument(a.Arguments) || hasDuplicateArgument(b.Arguments) {
		return false
	}
	for _, argA := range a.Arguments {
		argB := b.Arguments.ForName(argA.Name)
		if argB == nil {
			return false
		}
		if !sameValue(argA.Value, argB.Value) {
			return false
		}
	}
	return true
}

func hasDuplicateArgument(args ast.ArgumentList) bool {
	seen := make(map[string]struct{}, len(args))
	for _, arg := range args {
		if _, ok := seen[arg.Name]; ok {
			return true
		}
		seen[arg.Name] = struct{}{}
	}
	return false
}

func sameValue(a, b *ast.Value) bool {
	if a == nil || b == nil {
		return a == b
	}

	switch a.Kind {
	case ast.StringValue, ast.BlockValue:
		// a block string is still a string
		return (b.Kind == ast.StringValue || b.Kind == ast.BlockValue) && a.Raw == b.Raw
	case ast.ListValue:
		if b.Kind != ast.ListValue || len(a.Children) != len(b.Children) {
			return false
		}
		for i := range a.Children {
			if !sameValue(a.Children[i].Value, b.Children[i].Value) {
				return false
			}
		}
		return true
	case ast.ObjectValue:
		if b.Kind != ast.ObjectValue || len(a.Children) != len(b.Children) {
			return false
		}
		fieldsB := make(map[string]*ast.Value, len(b.Children))
		for _, child := range b.Children {
			if _, ok := fieldsB[child.Name]; ok {
				return false
			}
			fieldsB[child.Name] = child.Value
		}
		for _, child := range a.Children {
			valueB, ok := fieldsB[child.Name]
			if !ok || !sameValue(child.Value, valueB) {
				return false
			}
			// each field of b matches at most once
			delete(fieldsB, child.Name)
		}
		return true
	default:
		return a.Kind == b.Kind && a.Raw == b.Raw
	}
}

// insertDirective appends directive to directives unless the same
// application is already there.
func insertDirective(directives *ast.DirectiveList, directive *ast.Directive, where string) error {
	if directive == nil || !link.IsValidName(directive.Name) {
		return link.Errorf(link.ErrSchemaMutation, "cannot insert a directive with an invalid name on %s", where)
	}
	existing := directives.ForNames(directive.Name)
	for _, e := range existing {
		if SameDirective(e, directive) {
			return nil
		}
	}
	if len(existing) != 0 {
		return link.ErrorPosf(existing[0].Position, link.ErrConflictingDirectiveInsertion, "%s already has @%s with different arguments", where, directive.Name)
	}
	*directives = append(*directives, directive)
	return nil
}

type TypeDefinitionPosition struct {
	TypeName string
}

func (p TypeDefinitionPosition) String() string {
	return p.TypeName
}

func (p TypeDefinitionPosition) Get(s *FederationSchema) (*ast.Definition, error) {
	def := s.Type(p.TypeName)
	if def == nil {
		return nil, link.Errorf(link.ErrSchemaMutation, "type %q does not exist in schema", p.TypeName)
	}
	return def, nil
}

func (p TypeDefinitionPosition) InsertDirective(s *FederationSchema, directive *ast.Directive) error {
	def, err := p.Get(s)
	if err != nil {
		return err
	}
	return insertDirective(&def.Directives, directive, p.String())
}

type FieldDefinitionPosition struct {
	TypeName  string
	FieldName string
}

func (p FieldDefinitionPosition) String() string {
	return fmt.Sprintf("%s.%s", p.TypeName, p.FieldName)
}

func (p FieldDefinitionPosition) Get(s *FederationSchema) (*ast.FieldDefinition, error) {
	defs := s.typeDefinitions(p.TypeName)
	if len(defs) == 0 {
		return nil, link.Errorf(link.ErrSchemaMutation, "type %q does not exist in schema", p.TypeName)
	}
	for _, def := range defs {
		if field := def.Fields.ForName(p.FieldName); field != nil {
			return field, nil
		}
	}
	return nil, link.Errorf(link.ErrSchemaMutation, "field %q does not exist in schema", p.String())
}

func (p FieldDefinitionPosition) InsertDirective(s *FederationSchema, directive *ast.Directive) error {
	field, err := p.Get(s)
	if err != nil {
		return err
	}
	return insertDirective(&field.Directives, directive, p.String())
}

type EnumValueDefinitionPosition struct {
	TypeName  string
	ValueName string
}

func (p EnumValueDefinitionPosition) String() string {
	return fmt.Sprintf("%s.%s", p.TypeName, p.ValueName)
}

func (p EnumValueDefinitionPosition) Get(s *FederationSchema) (*ast.EnumValueDefinition, error) {
	defs := s.typeDefinitions(p.TypeName)
	if len(defs) == 0 {
		return nil, link.Errorf(link.ErrSchemaMutation, "type %q does not exist in schema", p.TypeName)
	}
	for _, def := range defs {
		if def.Kind != ast.Enum {
			return nil, link.Errorf(link.ErrSchemaMutation, "type %q is %s, not an enum", p.TypeName, def.Kind)
		}
		if value := def.EnumValues.ForName(p.ValueName); value != nil {
			return value, nil
		}
	}
	return nil, link.Errorf(link.ErrSchemaMutation, "enum value %q does not exist in schema", p.String())
}

// InsertDirective adds directive to the enum value. Inserting the same
// application twice is a no-op; a differing application of the same directive
// fails and leaves the existing one untouched.
func (p EnumValueDefinitionPosition) InsertDirective(s *FederationSchema, directive *ast.Directive) error {
	value, err := p.Get(s)
	if err != nil {
		return err
	}
	return insertDirective(&value.Directives, directive, p.String())
}
