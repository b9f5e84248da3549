package cost

import (
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vvakame/fedlink/internal/link"
	"github.com/vvakame/fedlink/internal/schema"
)

// for formatter
var blankPos = &ast.Position{
	Src: &ast.Source{
		BuiltIn: false,
	},
}

func costDirectiveDefinition(name string) *ast.DirectiveDefinition {
	return &ast.DirectiveDefinition{
		Name: name,
		Arguments: ast.ArgumentDefinitionList{
			&ast.ArgumentDefinition{
				Name: CostWeightArgumentName,
				Type: &ast.Type{
					NamedType: "Int",
					NonNull:   true,
				},
			},
		},
		Locations: []ast.DirectiveLocation{
			ast.LocationArgumentDefinition,
			ast.LocationEnum,
			ast.LocationEnumValue,
			ast.LocationFieldDefinition,
			ast.LocationInputFieldDefinition,
			ast.LocationObject,
			ast.LocationScalar,
		},
		Position: blankPos,
	}
}

func listSizeDirectiveDefinition(name string) *ast.DirectiveDefinition {
	stringList := func() *ast.Type {
		return &ast.Type{
			Elem: &ast.Type{
				NamedType: "String",
				NonNull:   true,
			},
		}
	}
	return &ast.DirectiveDefinition{
		Name: name,
		Arguments: ast.ArgumentDefinitionList{
			&ast.ArgumentDefinition{
				Name: ListSizeAssumedSizeArgumentName,
				Type: &ast.Type{
					NamedType: "Int",
				},
			},
			&ast.ArgumentDefinition{
				Name: ListSizeSlicingArgumentsArgumentName,
				Type: stringList(),
			},
			&ast.ArgumentDefinition{
				Name: ListSizeSizedFieldsArgumentName,
				Type: stringList(),
			},
			&ast.ArgumentDefinition{
				Name: ListSizeRequireOneSlicingArgumentArgumentName,
				DefaultValue: &ast.Value{
					Raw:  "true",
					Kind: ast.BooleanValue,
				},
				Type: &ast.Type{
					NamedType: "Boolean",
				},
			},
		},
		Locations: []ast.DirectiveLocation{
			ast.LocationFieldDefinition,
		},
		Position: blankPos,
	}
}

func (d *SpecDefinition) CostDirectiveDefinition(src link.MetadataSource) (*ast.DirectiveDefinition, error) {
	name, err := d.CostDirectiveName(src)
	if err != nil {
		return nil, err
	}
	return costDirectiveDefinition(name), nil
}

func (d *SpecDefinition) ListSizeDirectiveDefinition(src link.MetadataSource) (*ast.DirectiveDefinition, error) {
	name, err := d.ListSizeDirectiveName(src)
	if err != nil {
		return nil, err
	}
	return listSizeDirectiveDefinition(name), nil
}

// AddDirectiveDefinitions declares @cost and @listSize in dest under the
// names dest uses for them. Existing definitions are kept as they are.
func (d *SpecDefinition) AddDirectiveDefinitions(dest *schema.FederationSchema) error {
	for _, build := range []func(link.MetadataSource) (*ast.DirectiveDefinition, error){
		d.CostDirectiveDefinition,
		d.ListSizeDirectiveDefinition,
	} {
		def, err := build(dest)
		if err != nil {
			return err
		}
		if dest.DirectiveDefinition(def.Name) != nil {
			continue
		}
		err = dest.InsertDirectiveDefinition(def)
		if err != nil {
			return err
		}
	}
	return nil
}
