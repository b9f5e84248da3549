package main

import (
	"github.com/spf13/cobra"
	"github.com/vvakame/fedlink/internal/link"
)

type specVersionOutput struct {
	URL                      string `json:"url" yaml:"url"`
	Version                  string `json:"version" yaml:"version"`
	MinimumFederationVersion string `json:"minimumFederationVersion,omitempty" yaml:"minimumFederationVersion,omitempty"`
}

type specOutput struct {
	Identity string              `json:"identity" yaml:"identity"`
	Versions []specVersionOutput `json:"versions" yaml:"versions"`
}

func newSpecsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "specs",
		Short: "List every spec version known to fedlink",
		Long: `List every spec version known to fedlink, with the minimum federation
version a schema must link to use it.

Examples:
  fedlink specs
  fedlink specs -o json | jq '.[].identity'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var specs []specOutput
			for _, identity := range a.catalog.Identities() {
				spec := specOutput{
					Identity: identity.String(),
				}
				for _, def := range a.catalog.SpecFor(identity) {
					spec.Versions = append(spec.Versions, newSpecVersionOutput(def))
				}
				specs = append(specs, spec)
			}

			return a.print(cmd.OutOrStdout(), specs)
		},
	}
}

func newSpecVersionOutput(def link.SpecDefinition) specVersionOutput {
	out := specVersionOutput{
		URL:     def.URL().String(),
		Version: def.URL().Version.String(),
	}
	if minimum := def.MinimumFederationVersion(); minimum != nil {
		out.MinimumFederationVersion = minimum.String()
	}
	return out
}
