package main

import (
	"github.com/spf13/cobra"
	"github.com/vvakame/fedlink/internal/link"
	"github.com/vvakame/fedlink/internal/log"
	"github.com/vvakame/fedlink/internal/schema"
	"github.com/vvakame/fedlink/internal/spec/connect"
)

type linkOutput struct {
	URL              string            `json:"url" yaml:"url"`
	SpecNameInSchema string            `json:"specNameInSchema" yaml:"specNameInSchema"`
	Purpose          string            `json:"purpose,omitempty" yaml:"purpose,omitempty"`
	Imports          []string          `json:"imports,omitempty" yaml:"imports,omitempty"`
	DirectiveRenames map[string]string `json:"directiveRenames,omitempty" yaml:"directiveRenames,omitempty"`
}

type namesOutput struct {
	Service    string            `json:"service" yaml:"service"`
	Links      []linkOutput      `json:"links" yaml:"links"`
	Directives map[string]string `json:"directives" yaml:"directives"`
}

func newNamesCmd(a *app) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "names FILE",
		Short: "Show the links of a subgraph and the names its spec directives take",
		Long: `Show the specs a subgraph schema links and the names under which the
link, cost and connect directives are read in it. @cost and @listSize
imported through the federation link are reported under their imported
names. Unlinked, they keep their names in spec.

Examples:
  fedlink names products.graphqls
  fedlink names products.graphqls -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.FromContext(cmd.Context())

			service, err := readService(args[0], name)
			if err != nil {
				return err
			}
			s, err := schema.New(service.TypeDefs)
			if err != nil {
				return err
			}

			out := namesOutput{
				Service:    service.Name,
				Links:      []linkOutput{},
				Directives: map[string]string{},
			}
			for _, l := range s.LinksMetadata().Links() {
				lo := linkOutput{
					URL:              l.URL.String(),
					SpecNameInSchema: l.SpecNameInSchema(),
					Purpose:          string(l.Purpose),
				}
				for _, imp := range l.Imports {
					lo.Imports = append(lo.Imports, imp.String())
				}
				if renames := l.DirectiveRenames(); len(renames) != 0 {
					lo.DirectiveRenames = renames
				}
				out.Links = append(out.Links, lo)
			}

			if l := s.LinksMetadata().LinkSpec(); l != nil {
				if def, ok := a.catalog.Find(l.URL); ok {
					if linkSpec, ok := def.(*link.LinkSpecDefinition); ok {
						out.Directives["@"+l.URL.Identity.Name] = "@" + linkSpec.BootstrapDirectiveName(s)
					}
				}
			}

			costSpec, err := a.catalog.CostSpecFor(s)
			if err != nil {
				return err
			}
			names, err := costSpec.OriginalDirectiveNames(s)
			if err != nil {
				return err
			}
			for nameInSpec, nameInSchema := range names {
				out.Directives["@"+nameInSpec] = "@" + nameInSchema
			}

			connectSpec, connectLink, err := connect.GetFromSchema(a.catalog.Connect, s.Document())
			if err != nil {
				return err
			}
			if connectSpec != nil {
				logger.V(1).Info("connect spec linked", "url", connectSpec.URL().String())
				out.Directives["@"+connect.ConnectDirectiveNameInSpec] = "@" + connect.ConnectDirectiveName(connectLink)
				out.Directives["@"+connect.SourceDirectiveNameInSpec] = "@" + connect.SourceDirectiveName(connectLink)
			}

			return a.print(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "service name (default: file name without extension)")

	return cmd
}
