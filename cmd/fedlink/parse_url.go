package main

import (
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"github.com/vvakame/fedlink/internal/link"
)

type urlOutput struct {
	Input    string             `json:"input" yaml:"input"`
	Domain   string             `json:"domain" yaml:"domain"`
	Name     string             `json:"name" yaml:"name"`
	Version  string             `json:"version" yaml:"version"`
	URL      string             `json:"url" yaml:"url"`
	Known    bool               `json:"known" yaml:"known"`
	Matching *specVersionOutput `json:"matching,omitempty" yaml:"matching,omitempty"`
}

func newParseURLCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "parse-url URL...",
		Short: "Parse spec urls",
		Long: `Parse spec urls into their identity and version, and tell whether
fedlink knows the version. For a known spec the highest known version
satisfying the requested one is reported as matching.

Examples:
  fedlink parse-url https://specs.apollo.dev/cost/v0.1
  fedlink parse-url https://specs.apollo.dev/federation/v2.3 -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result *multierror.Error
			var outputs []urlOutput
			for _, arg := range args {
				u, err := link.ParseUrl(arg)
				if err != nil {
					result = multierror.Append(result, err)
					continue
				}

				out := urlOutput{
					Input:   arg,
					Domain:  u.Identity.Domain,
					Name:    u.Identity.Name,
					Version: u.Version.String(),
					URL:     u.String(),
				}
				_, out.Known = a.catalog.Find(u)
				if def, ok := a.catalog.FindSatisfying(u); ok {
					matching := newSpecVersionOutput(def)
					out.Matching = &matching
				}
				outputs = append(outputs, out)
			}

			if len(outputs) != 0 {
				if err := a.print(cmd.OutOrStdout(), outputs); err != nil {
					return err
				}
			}

			return result.ErrorOrNil()
		},
	}
}
