package schema

import (
	"bytes"
	"io"
	"sort"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
)

// LexicographicSortDocument orders the definitions, fields, arguments and
// enum values of doc by name, in place. Directive applications keep their
// order since repeatable directives are order sensitive.
func LexicographicSortDocument(doc *ast.SchemaDocument) *ast.SchemaDocument {
	sortArgumentDefinitionList := func(argDefs ast.ArgumentDefinitionList) {
		sort.SliceStable(argDefs, func(i, j int) bool {
			return argDefs[i].Name < argDefs[j].Name
		})
	}
	sortFieldList := func(fields ast.FieldList) {
		sort.SliceStable(fields, func(i, j int) bool {
			return fields[i].Name < fields[j].Name
		})

		for _, field := range fields {
			sortArgumentDefinitionList(field.Arguments)
		}
	}
	sortEnumValueList := func(enumValues ast.EnumValueList) {
		sort.SliceStable(enumValues, func(i, j int) bool {
			return enumValues[i].Name < enumValues[j].Name
		})
	}
	sortDefinition := func(def *ast.Definition) {
		sort.Strings(def.Interfaces)
		sortFieldList(def.Fields)
		sort.Strings(def.Types)
		sortEnumValueList(def.EnumValues)
	}
	sortDefinitionList := func(defs ast.DefinitionList) {
		sort.SliceStable(defs, func(i, j int) bool {
			return defs[i].Name < defs[j].Name
		})
		for _, def := range defs {
			sortDefinition(def)
		}
	}

	sortDefinitionList(doc.Definitions)
	sortDefinitionList(doc.Extensions)
	sort.SliceStable(doc.Directives, func(i, j int) bool {
		return doc.Directives[i].Name < doc.Directives[j].Name
	})
	for _, def := range doc.Directives {
		sortArgumentDefinitionList(def.Arguments)
	}

	return doc
}

// Format prints the document of s as SDL.
func Format(w io.Writer, s *FederationSchema) {
	formatter.NewFormatter(w).FormatSchemaDocument(s.Document())
}

// SDL is Format into a string.
func (s *FederationSchema) SDL() string {
	var buf bytes.Buffer
	Format(&buf, s)
	return buf.String()
}
