package cost

import (
	"bytes"
	"errors"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
	"github.com/vektah/gqlparser/v2/parser"
	"github.com/vvakame/fedlink/internal/link"
	"github.com/vvakame/fedlink/internal/schema"
)

func newSchema(t *testing.T, sdl string) *schema.FederationSchema {
	t.Helper()

	doc, err := parser.ParseSchema(&ast.Source{
		Name:  t.Name() + ".graphqls",
		Input: heredoc.Doc(sdl),
	})
	if err != nil {
		t.Fatal(err)
	}
	s, err := schema.New(doc)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func latest(t *testing.T) *SpecDefinition {
	t.Helper()

	versions, err := NewVersions()
	require.NoError(t, err)
	def, ok := versions.Latest()
	require.True(t, ok)
	return def
}

func formatDirectives(directives ast.DirectiveList) string {
	var buf bytes.Buffer
	for _, d := range directives {
		buf.WriteString(" @")
		buf.WriteString(d.Name)
		if len(d.Arguments) == 0 {
			continue
		}
		buf.WriteString("(")
		for i, arg := range d.Arguments {
			if i != 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(arg.Name)
			buf.WriteString(": ")
			buf.WriteString(arg.Value.String())
		}
		buf.WriteString(")")
	}
	return buf.String()
}

func TestNewVersions(t *testing.T) {
	t.Parallel()

	versions, err := NewVersions()
	require.NoError(t, err)
	assert.True(t, versions.Frozen())
	assert.Equal(t, link.CostIdentity(), versions.Identity())
	assert.Equal(t, []link.Version{{Major: 0, Minor: 1}}, versions.Versions())

	def, ok := versions.Find(link.Version{Major: 0, Minor: 1})
	require.True(t, ok)
	assert.Equal(t, "https://specs.apollo.dev/cost/v0.1", def.URL().String())
	require.NotNil(t, def.MinimumFederationVersion())
	assert.Equal(t, link.Version{Major: 2, Minor: 9}, *def.MinimumFederationVersion())

	assert.True(t, link.SupportsFederationVersion(def, link.Version{Major: 2, Minor: 9}))
	assert.False(t, link.SupportsFederationVersion(def, link.Version{Major: 2, Minor: 8}))
}

func TestSpecDefinition_DirectiveNames(t *testing.T) {
	t.Parallel()

	const linkSpec = `extend schema @link(url: "https://specs.apollo.dev/link/v1.0") `

	tests := []struct {
		name     string
		sdl      string
		cost     string
		listSize string
	}{
		{
			name:     "not linked",
			sdl:      `type Query { hello: String }`,
			cost:     "federation__cost",
			listSize: "federation__listSize",
		},
		{
			name:     "linked without import",
			sdl:      linkSpec + `@link(url: "https://specs.apollo.dev/cost/v0.1")`,
			cost:     "cost",
			listSize: "cost__listSize",
		},
		{
			name:     "imported",
			sdl:      linkSpec + `@link(url: "https://specs.apollo.dev/cost/v0.1", import: ["@cost", "@listSize"])`,
			cost:     "cost",
			listSize: "listSize",
		},
		{
			name:     "renamed",
			sdl:      linkSpec + `@link(url: "https://specs.apollo.dev/cost/v0.1", import: [{ name: "@cost", as: "@myCost" }, { name: "@listSize", as: "@mySize" }])`,
			cost:     "myCost",
			listSize: "mySize",
		},
		{
			name:     "spec renamed",
			sdl:      linkSpec + `@link(url: "https://specs.apollo.dev/cost/v0.1", as: "demand")`,
			cost:     "demand",
			listSize: "demand__listSize",
		},
	}

	def := latest(t)
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := newSchema(t, tt.sdl)

			costName, err := def.CostDirectiveName(s)
			require.NoError(t, err)
			assert.Equal(t, tt.cost, costName)

			listSizeName, err := def.ListSizeDirectiveName(s)
			require.NoError(t, err)
			assert.Equal(t, tt.listSize, listSizeName)
		})
	}
}

func TestSpecDefinition_OriginalDirectiveNames(t *testing.T) {
	t.Parallel()

	const linkSpec = `extend schema @link(url: "https://specs.apollo.dev/link/v1.0") `

	tests := []struct {
		name     string
		sdl      string
		cost     string
		listSize string
	}{
		{
			name:     "not linked",
			sdl:      `type Query { hello: String }`,
			cost:     "cost",
			listSize: "listSize",
		},
		{
			name:     "cost linked without import",
			sdl:      linkSpec + `@link(url: "https://specs.apollo.dev/cost/v0.1")`,
			cost:     "cost",
			listSize: "cost__listSize",
		},
		{
			name:     "renamed by the cost link",
			sdl:      linkSpec + `@link(url: "https://specs.apollo.dev/cost/v0.1", import: [{ name: "@cost", as: "@myCost" }, { name: "@listSize", as: "@mySize" }])`,
			cost:     "myCost",
			listSize: "mySize",
		},
		{
			name:     "imported through federation",
			sdl:      linkSpec + `@link(url: "https://specs.apollo.dev/federation/v2.9", import: ["@key", "@cost", "@listSize"])`,
			cost:     "cost",
			listSize: "listSize",
		},
		{
			name:     "renamed through federation",
			sdl:      linkSpec + `@link(url: "https://specs.apollo.dev/federation/v2.9", import: [{ name: "@cost", as: "@fedCost" }])`,
			cost:     "fedCost",
			listSize: "federation__listSize",
		},
		{
			name:     "federation linked under another name",
			sdl:      linkSpec + `@link(url: "https://specs.apollo.dev/federation/v2.9", as: "fed")`,
			cost:     "fed__cost",
			listSize: "fed__listSize",
		},
		{
			name: "federation import wins over the cost link default",
			sdl: linkSpec + `@link(url: "https://specs.apollo.dev/cost/v0.1", as: "demand")
				@link(url: "https://specs.apollo.dev/federation/v2.9", import: ["@listSize"])`,
			cost:     "demand",
			listSize: "listSize",
		},
		{
			name: "cost link import wins over federation",
			sdl: linkSpec + `@link(url: "https://specs.apollo.dev/federation/v2.9", import: [{ name: "@cost", as: "@fedCost" }])
				@link(url: "https://specs.apollo.dev/cost/v0.1", import: [{ name: "@cost", as: "@myCost" }])`,
			cost:     "myCost",
			listSize: "cost__listSize",
		},
		{
			name:     "imports of other domains are ignored",
			sdl:      linkSpec + `@link(url: "https://example.com/pricing/v1.0", import: [{ name: "@cost", as: "@price" }])`,
			cost:     "cost",
			listSize: "listSize",
		},
	}

	def := latest(t)
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			names, err := def.OriginalDirectiveNames(newSchema(t, tt.sdl))
			require.NoError(t, err)
			assert.Equal(t, map[string]string{"cost": tt.cost, "listSize": tt.listSize}, names)
		})
	}

	names, err := def.OriginalDirectiveNames(nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"cost": "cost", "listSize": "listSize"}, names)
}

func TestSpecDefinition_PropagateDemandControlDirectives_importedThroughFederation(t *testing.T) {
	t.Parallel()

	source := newSchema(t, `
		extend schema
			@link(url: "https://specs.apollo.dev/link/v1.0")
			@link(url: "https://specs.apollo.dev/federation/v2.9", import: ["@key", "@cost", "@listSize"])

		type Query {
			items: [String] @cost(weight: 5) @listSize(assumedSize: 10)
		}
	`)
	dest := newSchema(t, `type Query { items: [String] }`)

	def := latest(t)
	names, err := def.OriginalDirectiveNames(source)
	require.NoError(t, err)

	target := dest.Type("Query").Fields.ForName("items")
	err = def.PropagateDemandControlDirectives(dest, source.Type("Query").Fields.ForName("items").Directives, &target.Directives, names)
	require.NoError(t, err)
	assert.Equal(t, " @federation__cost(weight: 5) @federation__listSize(assumedSize: 10)", formatDirectives(target.Directives))
}

func TestSpecDefinition_CostDirective(t *testing.T) {
	t.Parallel()

	def := latest(t)
	args := ast.ArgumentList{
		{Name: "weight", Value: &ast.Value{Kind: ast.IntValue, Raw: "7"}},
	}

	directive, err := def.CostDirective(nil, args)
	require.NoError(t, err)
	assert.Equal(t, "federation__cost", directive.Name)
	assert.Equal(t, " @federation__cost(weight: 7)", formatDirectives(ast.DirectiveList{directive}))

	// the argument list is not shared with the caller
	directive.Arguments = append(directive.Arguments, &ast.Argument{Name: "extra"})
	assert.Len(t, args, 1)

	directive, err = def.ListSizeDirective(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "federation__listSize", directive.Name)
	assert.Empty(t, directive.Arguments)
}

func TestSpecDefinition_PropagateDemandControlDirectives(t *testing.T) {
	t.Parallel()

	source := newSchema(t, `
		extend schema
			@link(url: "https://specs.apollo.dev/link/v1.0")
			@link(url: "https://specs.apollo.dev/cost/v0.1", import: [{ name: "@cost", as: "@myCost" }, { name: "@listSize", as: "@mySize" }])

		type Query {
			items(first: Int): [String] @myCost(weight: 5) @mySize(assumedSize: 10, slicingArguments: ["first"]) @deprecated
		}
	`)

	tests := []struct {
		name   string
		dest   string
		expect string
	}{
		{
			name:   "unlinked destination",
			dest:   `type Query { items(first: Int): [String] }`,
			expect: ` @federation__cost(weight: 5) @federation__listSize(assumedSize: 10, slicingArguments: ["first"])`,
		},
		{
			name: "destination imports the directives",
			dest: `
				extend schema
					@link(url: "https://specs.apollo.dev/link/v1.0")
					@link(url: "https://specs.apollo.dev/cost/v0.1", import: ["@cost", "@listSize"])

				type Query { items(first: Int): [String] }
			`,
			expect: ` @cost(weight: 5) @listSize(assumedSize: 10, slicingArguments: ["first"])`,
		},
		{
			name: "destination links the spec under another name",
			dest: `
				extend schema
					@link(url: "https://specs.apollo.dev/link/v1.0")
					@link(url: "https://specs.apollo.dev/cost/v0.1", as: "demand")

				type Query { items(first: Int): [String] }
			`,
			expect: ` @demand(weight: 5) @demand__listSize(assumedSize: 10, slicingArguments: ["first"])`,
		},
	}

	def := latest(t)
	names, err := def.OriginalDirectiveNames(source)
	require.NoError(t, err)
	sourceField := source.Type("Query").Fields.ForName("items")

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dest := newSchema(t, tt.dest)
			target := dest.Type("Query").Fields.ForName("items")

			err := def.PropagateDemandControlDirectives(dest, sourceField.Directives, &target.Directives, names)
			require.NoError(t, err)
			assert.Equal(t, tt.expect, formatDirectives(target.Directives))

			for _, d := range target.Directives {
				assert.NotNil(t, d.Position)
			}

			// propagating again adds nothing
			err = def.PropagateDemandControlDirectives(dest, sourceField.Directives, &target.Directives, names)
			require.NoError(t, err)
			assert.Equal(t, tt.expect, formatDirectives(target.Directives))
		})
	}
}

func TestSpecDefinition_PropagateDemandControlDirectives_absent(t *testing.T) {
	t.Parallel()

	def := latest(t)
	dest := newSchema(t, `type Query { hello: String }`)

	source := ast.DirectiveList{
		{Name: "deprecated"},
		// named as in spec, but the table says @cost is @myCost in source
		{Name: "cost", Arguments: ast.ArgumentList{{Name: "weight", Value: &ast.Value{Kind: ast.IntValue, Raw: "1"}}}},
	}
	var target ast.DirectiveList
	err := def.PropagateDemandControlDirectives(dest, source, &target, map[string]string{"cost": "myCost", "listSize": "mySize"})
	require.NoError(t, err)
	assert.Empty(t, target)

	err = def.PropagateDemandControlDirectives(dest, nil, &target, nil)
	require.NoError(t, err)
	assert.Empty(t, target)
}

func TestSpecDefinition_PropagateDemandControlDirectives_missingNameFallsBack(t *testing.T) {
	t.Parallel()

	def := latest(t)
	dest := newSchema(t, `type Query { hello: String }`)

	source := ast.DirectiveList{
		{Name: "cost", Arguments: ast.ArgumentList{{Name: "weight", Value: &ast.Value{Kind: ast.IntValue, Raw: "2"}}}},
		{Name: "listSize", Arguments: ast.ArgumentList{{Name: "assumedSize", Value: &ast.Value{Kind: ast.IntValue, Raw: "3"}}}},
	}
	var target ast.DirectiveList
	err := def.PropagateDemandControlDirectives(dest, source, &target, map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, " @federation__cost(weight: 2) @federation__listSize(assumedSize: 3)", formatDirectives(target))
}

func TestSpecDefinition_PropagateDemandControlDirectivesForEnum(t *testing.T) {
	t.Parallel()

	source := newSchema(t, `
		extend schema
			@link(url: "https://specs.apollo.dev/link/v1.0")
			@link(url: "https://specs.apollo.dev/cost/v0.1", import: [{ name: "@cost", as: "@weight" }])

		enum Size {
			SMALL
			LARGE @weight(weight: 10)
		}
	`)
	def := latest(t)
	names, err := def.OriginalDirectiveNames(source)
	require.NoError(t, err)
	large := source.Type("Size").EnumValues.ForName("LARGE")
	small := source.Type("Size").EnumValues.ForName("SMALL")

	t.Run("copied", func(t *testing.T) {
		t.Parallel()

		dest := newSchema(t, `enum Size { SMALL LARGE }`)
		position := schema.EnumValueDefinitionPosition{TypeName: "Size", ValueName: "LARGE"}

		require.NoError(t, def.PropagateDemandControlDirectivesForEnum(dest, large, position, names))
		require.NoError(t, def.PropagateDemandControlDirectivesForEnum(dest, large, position, names))

		value, err := position.Get(dest)
		require.NoError(t, err)
		assert.Equal(t, " @federation__cost(weight: 10)", formatDirectives(value.Directives))
	})

	t.Run("nothing to copy", func(t *testing.T) {
		t.Parallel()

		dest := newSchema(t, `enum Size { SMALL LARGE }`)
		position := schema.EnumValueDefinitionPosition{TypeName: "Size", ValueName: "SMALL"}

		require.NoError(t, def.PropagateDemandControlDirectivesForEnum(dest, small, position, names))
		require.NoError(t, def.PropagateDemandControlDirectivesForEnum(dest, nil, position, names))

		value, err := position.Get(dest)
		require.NoError(t, err)
		assert.Empty(t, value.Directives)
	})

	t.Run("conflict", func(t *testing.T) {
		t.Parallel()

		dest := newSchema(t, `enum Size { SMALL LARGE @federation__cost(weight: 99) }`)
		position := schema.EnumValueDefinitionPosition{TypeName: "Size", ValueName: "LARGE"}

		err := def.PropagateDemandControlDirectivesForEnum(dest, large, position, names)
		assert.True(t, errors.Is(err, link.ErrConflictingDirectiveInsertion), "unexpected error: %v", err)

		value, err := position.Get(dest)
		require.NoError(t, err)
		assert.Equal(t, " @federation__cost(weight: 99)", formatDirectives(value.Directives))
	})

	t.Run("missing enum value", func(t *testing.T) {
		t.Parallel()

		dest := newSchema(t, `enum Size { SMALL }`)
		position := schema.EnumValueDefinitionPosition{TypeName: "Size", ValueName: "LARGE"}

		err := def.PropagateDemandControlDirectivesForEnum(dest, large, position, names)
		assert.True(t, errors.Is(err, link.ErrSchemaMutation), "unexpected error: %v", err)
	})
}

func TestSpecDefinition_AddDirectiveDefinitions(t *testing.T) {
	t.Parallel()

	def := latest(t)

	dest := newSchema(t, `
		extend schema
			@link(url: "https://specs.apollo.dev/link/v1.0")
			@link(url: "https://specs.apollo.dev/cost/v0.1", import: ["@listSize"])

		directive @listSize(assumedSize: Int) on FIELD_DEFINITION

		type Query { hello: String }
	`)

	require.NoError(t, def.AddDirectiveDefinitions(dest))
	require.NoError(t, def.AddDirectiveDefinitions(dest))

	costDef := dest.DirectiveDefinition("cost")
	require.NotNil(t, costDef)
	assert.Len(t, costDef.Arguments, 1)
	assert.Contains(t, costDef.Locations, ast.LocationEnumValue)

	// the existing definition is kept
	listSizeDef := dest.DirectiveDefinition("listSize")
	require.NotNil(t, listSizeDef)
	assert.Len(t, listSizeDef.Arguments, 1)
	assert.Len(t, dest.Document().Directives, 2)

	var buf bytes.Buffer
	formatter.NewFormatter(&buf).FormatSchemaDocument(&ast.SchemaDocument{
		Directives: ast.DirectiveDefinitionList{costDef},
	})
	assert.Contains(t, buf.String(), "directive @cost(weight: Int!) on ")
	assert.Contains(t, buf.String(), "ENUM_VALUE")

	unlinked := newSchema(t, `type Query { hello: String }`)
	require.NoError(t, def.AddDirectiveDefinitions(unlinked))
	assert.NotNil(t, unlinked.DirectiveDefinition("federation__cost"))
	assert.NotNil(t, unlinked.DirectiveDefinition("federation__listSize"))
}
