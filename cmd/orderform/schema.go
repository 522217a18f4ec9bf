package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-orderform/pkg/catalog"
	"github.com/goliatone/go-orderform/pkg/schema"
)

var schemaOpenAPI string

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the order form validation rules",
	Long: `Print the field rules as JSON. By default the rules come from the
bundled OpenAPI document; pass --openapi to derive them from another
document describing the same order operation.`,
	RunE: runSchema,
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.Flags().StringVar(&schemaOpenAPI, "openapi", "", "OpenAPI document to derive the rules from")
}

func runSchema(cmd *cobra.Command, args []string) error {
	s := schema.Default()
	if schemaOpenAPI != "" {
		raw, err := os.ReadFile(schemaOpenAPI)
		if err != nil {
			return fmt.Errorf("schema: read %s: %w", schemaOpenAPI, err)
		}
		s, err = schema.FromOpenAPI(cmd.Context(), raw, schema.OpenAPIOptions{
			Messages: catalog.Default().Messages(),
		})
		if err != nil {
			return err
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(s.Rules())
}
