package federation

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vvakame/fedlink/internal/log"
	"github.com/vvakame/fedlink/internal/schema"
)

// CopyDemandControlDirectives carries @cost and @listSize from the types,
// fields, arguments and enum values of source to the same elements of dest,
// renaming them from the names used by source to the names used by dest.
// Elements missing from dest are skipped.
func CopyDemandControlDirectives(ctx context.Context, catalog *Catalog, source, dest *schema.FederationSchema) error {
	logger := log.FromContext(ctx)

	costSpec, err := catalog.CostSpecFor(dest, source)
	if err != nil {
		return err
	}
	originalDirectiveNames, err := costSpec.OriginalDirectiveNames(source)
	if err != nil {
		return err
	}
	logger.V(1).Info("copying demand control directives", "spec", costSpec.URL().String(), "originalNames", originalDirectiveNames)

	var result *multierror.Error
	var copied int

	propagate := func(where string, sourceDirectives ast.DirectiveList, target *ast.DirectiveList) {
		before := len(*target)
		err := costSpec.PropagateDemandControlDirectives(dest, sourceDirectives, target, originalDirectiveNames)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", where, err))
		}
		copied += len(*target) - before
	}

	defs := make(ast.DefinitionList, 0, len(source.Document().Definitions)+len(source.Document().Extensions))
	defs = append(defs, source.Document().Definitions...)
	defs = append(defs, source.Document().Extensions...)
	for _, def := range defs {
		typePosition := schema.TypeDefinitionPosition{TypeName: def.Name}
		destDef, err := typePosition.Get(dest)
		if err != nil || destDef.Kind != def.Kind {
			logger.V(2).Info("type is not in destination", "type", def.Name)
			continue
		}

		propagate(typePosition.String(), def.Directives, &destDef.Directives)

		for _, field := range def.Fields {
			fieldPosition := schema.FieldDefinitionPosition{TypeName: def.Name, FieldName: field.Name}
			destField, err := fieldPosition.Get(dest)
			if err != nil {
				continue
			}
			where := fieldPosition.String()
			propagate(where, field.Directives, &destField.Directives)

			for _, arg := range field.Arguments {
				destArg := destField.Arguments.ForName(arg.Name)
				if destArg == nil {
					continue
				}
				propagate(fmt.Sprintf("%s(%s:)", where, arg.Name), arg.Directives, &destArg.Directives)
			}
		}

		for _, value := range def.EnumValues {
			position := schema.EnumValueDefinitionPosition{TypeName: def.Name, ValueName: value.Name}
			destValue, err := position.Get(dest)
			if err != nil {
				continue
			}
			before := len(destValue.Directives)
			err = costSpec.PropagateDemandControlDirectivesForEnum(dest, value, position, originalDirectiveNames)
			if err != nil {
				result = multierror.Append(result, fmt.Errorf("%s: %w", position.String(), err))
			}
			copied += len(destValue.Directives) - before
		}
	}

	if copied != 0 {
		err := costSpec.AddDirectiveDefinitions(dest)
		if err != nil {
			result = multierror.Append(result, err)
		}
	}
	logger.V(1).Info("demand control directives copied", "count", copied)

	return result.ErrorOrNil()
}
