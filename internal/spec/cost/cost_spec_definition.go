package cost

import (
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vvakame/fedlink/internal/link"
	"github.com/vvakame/fedlink/internal/schema"
)

const (
	CostDirectiveNameInSpec = "cost"
	CostWeightArgumentName  = "weight"

	ListSizeDirectiveNameInSpec                   = "listSize"
	ListSizeAssumedSizeArgumentName               = "assumedSize"
	ListSizeSlicingArgumentsArgumentName          = "slicingArguments"
	ListSizeSizedFieldsArgumentName               = "sizedFields"
	ListSizeRequireOneSlicingArgumentArgumentName = "requireOneSlicingArgument"

	// prefix of the directive names used when the schema doesn't link the spec
	defaultDirectivePrefix = "federation"
)

var (
	CostDirectiveNameDefault     = link.DefaultDirectiveName(defaultDirectivePrefix, CostDirectiveNameInSpec)
	ListSizeDirectiveNameDefault = link.DefaultDirectiveName(defaultDirectivePrefix, ListSizeDirectiveNameInSpec)
)

type SpecDefinition struct {
	link.BaseSpecDefinition
}

var _ link.SpecDefinition = (*SpecDefinition)(nil)

func NewSpecDefinition(version link.Version, minimumFederationVersion *link.Version) *SpecDefinition {
	return &SpecDefinition{
		BaseSpecDefinition: link.NewBaseSpecDefinition(
			link.Url{Identity: link.CostIdentity(), Version: version},
			minimumFederationVersion,
		),
	}
}

func NewVersions() (*link.SpecDefinitions[*SpecDefinition], error) {
	definitions := link.NewSpecDefinitions[*SpecDefinition](link.CostIdentity())
	err := definitions.Add(NewSpecDefinition(
		link.Version{Major: 0, Minor: 1},
		&link.Version{Major: 2, Minor: 9},
	))
	if err != nil {
		return nil, err
	}
	definitions.Freeze()
	return definitions, nil
}

func (d *SpecDefinition) nameInSchema(src link.MetadataSource, nameInSpec, fallback string) (string, error) {
	name, ok, err := d.DirectiveNameInSchema(src, nameInSpec)
	if err != nil {
		return "", err
	}
	if !ok {
		return fallback, nil
	}
	return name, nil
}

func (d *SpecDefinition) CostDirectiveName(src link.MetadataSource) (string, error) {
	return d.nameInSchema(src, CostDirectiveNameInSpec, CostDirectiveNameDefault)
}

func (d *SpecDefinition) ListSizeDirectiveName(src link.MetadataSource) (string, error) {
	return d.nameInSchema(src, ListSizeDirectiveNameInSpec, ListSizeDirectiveNameDefault)
}

// CostDirective builds a @cost application named as src expects it.
// arguments are carried over as is.
func (d *SpecDefinition) CostDirective(src link.MetadataSource, arguments ast.ArgumentList) (*ast.Directive, error) {
	name, err := d.CostDirectiveName(src)
	if err != nil {
		return nil, err
	}
	return &ast.Directive{
		Name:      name,
		Arguments: append(ast.ArgumentList{}, arguments...),
	}, nil
}

// ListSizeDirective builds a @listSize application named as src expects it.
// arguments are carried over as is.
func (d *SpecDefinition) ListSizeDirective(src link.MetadataSource, arguments ast.ArgumentList) (*ast.Directive, error) {
	name, err := d.ListSizeDirectiveName(src)
	if err != nil {
		return nil, err
	}
	return &ast.Directive{
		Name:      name,
		Arguments: append(ast.ArgumentList{}, arguments...),
	}, nil
}

// OriginalDirectiveNames returns the names @cost and @listSize carry in src,
// keyed by their name in spec. A directive imported by the cost link wins,
// then one imported by any other specs.apollo.dev link (federation re-exports
// both). Otherwise the name follows the cost link, then the federation link,
// then the name in spec.
func (d *SpecDefinition) OriginalDirectiveNames(src link.MetadataSource) (map[string]string, error) {
	var metadata *link.Metadata
	if src != nil {
		metadata = src.LinksMetadata()
	}
	costLink := metadata.ForIdentity(link.CostIdentity())
	federationLink := metadata.ForIdentity(link.FederationIdentity())

	names := make(map[string]string)
	for _, nameInSpec := range []string{CostDirectiveNameInSpec, ListSizeDirectiveNameInSpec} {
		if costLink != nil {
			if _, ok := costLink.DirectiveRenames()[nameInSpec]; ok {
				name, _, err := d.DirectiveNameInSchema(src, nameInSpec)
				if err != nil {
					return nil, err
				}
				names[nameInSpec] = name
				continue
			}
		}
		if name, ok := importedByApolloLink(metadata, nameInSpec); ok {
			names[nameInSpec] = name
			continue
		}
		name, ok, err := d.DirectiveNameInSchema(src, nameInSpec)
		if err != nil {
			return nil, err
		}
		switch {
		case ok:
			names[nameInSpec] = name
		case federationLink != nil:
			names[nameInSpec] = federationLink.DirectiveNameInSchema(nameInSpec)
		default:
			names[nameInSpec] = nameInSpec
		}
	}
	return names, nil
}

func importedByApolloLink(metadata *link.Metadata, nameInSpec string) (string, bool) {
	for _, l := range metadata.Links() {
		if l.URL.Identity.Domain != link.ApolloSpecDomain || l.URL.Identity == link.CostIdentity() {
			continue
		}
		if name, ok := l.DirectiveRenames()[nameInSpec]; ok {
			return name, true
		}
	}
	return "", false
}

type demandControlDirective struct {
	nameInSpec string
	build      func(src link.MetadataSource, arguments ast.ArgumentList) (*ast.Directive, error)
}

func (d *SpecDefinition) demandControlDirectives() []demandControlDirective {
	return []demandControlDirective{
		{nameInSpec: CostDirectiveNameInSpec, build: d.CostDirective},
		{nameInSpec: ListSizeDirectiveNameInSpec, build: d.ListSizeDirective},
	}
}

func originalName(originalDirectiveNames map[string]string, nameInSpec string) string {
	if name, ok := originalDirectiveNames[nameInSpec]; ok && name != "" {
		return name
	}
	return nameInSpec
}

// PropagateDemandControlDirectives copies @cost and @listSize found in source,
// under the names given by originalDirectiveNames, into target under the
// names used by dest.
func (d *SpecDefinition) PropagateDemandControlDirectives(dest *schema.FederationSchema, source ast.DirectiveList, target *ast.DirectiveList, originalDirectiveNames map[string]string) error {
	for _, dc := range d.demandControlDirectives() {
		found := source.ForName(originalName(originalDirectiveNames, dc.nameInSpec))
		if found == nil {
			continue
		}
		directive, err := dc.build(dest, found.Arguments)
		if err != nil {
			return err
		}
		directive.Position = found.Position

		var exists bool
		for _, existing := range target.ForNames(directive.Name) {
			if schema.SameDirective(existing, directive) {
				exists = true
				break
			}
		}
		if !exists {
			*target = append(*target, directive)
		}
	}
	return nil
}

// PropagateDemandControlDirectivesForEnum is PropagateDemandControlDirectives
// for an enum value of dest. A differing application already present on the
// enum value is an error.
func (d *SpecDefinition) PropagateDemandControlDirectivesForEnum(dest *schema.FederationSchema, source *ast.EnumValueDefinition, position schema.EnumValueDefinitionPosition, originalDirectiveNames map[string]string) error {
	if source == nil {
		return nil
	}
	for _, dc := range d.demandControlDirectives() {
		found := source.Directives.ForName(originalName(originalDirectiveNames, dc.nameInSpec))
		if found == nil {
			continue
		}
		directive, err := dc.build(dest, found.Arguments)
		if err != nil {
			return err
		}
		directive.Position = found.Position

		err = position.InsertDirective(dest, directive)
		if err != nil {
			return err
		}
	}
	return nil
}
