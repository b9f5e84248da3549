package main

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/vvakame/fedlink/internal/federation"
	"github.com/vvakame/fedlink/internal/schema"
)

func newCopyCostCmd(a *app) *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "copy-cost --from SOURCE DEST",
		Short: "Copy @cost and @listSize from one schema onto another",
		Long: `Copy the @cost and @listSize applications of SOURCE onto the matching
types, fields, arguments and enum values of DEST, renamed to the names
DEST uses for them, and print DEST.

Examples:
  fedlink copy-cost --from inventory.graphqls supergraph-part.graphqls`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sourceService, err := readService(from, "")
			if err != nil {
				return err
			}
			destService, err := readService(args[0], "")
			if err != nil {
				return err
			}

			source, err := schema.New(sourceService.TypeDefs)
			if err != nil {
				return err
			}
			dest, err := schema.New(destService.TypeDefs)
			if err != nil {
				return err
			}

			err = federation.CopyDemandControlDirectives(cmd.Context(), a.catalog, source, dest)
			if err != nil {
				printDiagnostics(cmd.ErrOrStderr(), err)
				return errors.New("copying demand control directives failed")
			}

			a.printSchema(cmd.OutOrStdout(), dest)

			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "schema to copy the directives from")
	_ = cmd.MarkFlagRequired("from")

	return cmd
}
