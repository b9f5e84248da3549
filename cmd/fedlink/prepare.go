package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"github.com/vvakame/fedlink/internal/federation"
	"github.com/vvakame/fedlink/internal/schema"
)

func newPrepareCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "prepare FILE...",
		Short: "Validate the links of subgraphs and add the connect spec definitions",
		Long: `Validate the spec links of each subgraph and add the types and
directives the connect spec needs when the subgraph links it.
The prepared SDL of every subgraph is printed. Each service is named
after its file.

Examples:
  fedlink prepare products.graphqls reviews.graphqls
  fedlink prepare --sort products.graphqls`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var services []*federation.ServiceDefinition
			for _, arg := range args {
				service, err := readService(arg, "")
				if err != nil {
					return err
				}
				services = append(services, service)
			}

			schemas, err := federation.PrepareSubgraphs(cmd.Context(), a.catalog, services)
			if err != nil {
				printDiagnostics(cmd.ErrOrStderr(), err)
				return errors.New("preparing subgraphs failed")
			}

			for i, s := range schemas {
				if i != 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", services[i].Name)
				a.printSchema(cmd.OutOrStdout(), s)
			}

			return nil
		},
	}
}

func (a *app) printSchema(w io.Writer, s *schema.FederationSchema) {
	if a.cfg.Sort {
		schema.LexicographicSortDocument(s.Document())
	}
	schema.Format(w, s)
}

// printDiagnostics writes one line per error found in err.
func printDiagnostics(w io.Writer, err error) {
	var merr *multierror.Error
	if errors.As(err, &merr) {
		for _, e := range merr.Errors {
			printDiagnostics(w, e)
		}
		return
	}
	fmt.Fprintln(w, err.Error())
}
