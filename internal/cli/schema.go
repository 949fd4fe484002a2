package cli

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/memememomo/bedrock-iac/internal/resource"
	"github.com/memememomo/bedrock-iac/internal/vectorindex"
)

var (
	schemaIndexName     string
	schemaVectorField   string
	schemaDimension     int
	schemaFieldMode     string
	schemaTextField     string
	schemaMetadataField string
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the create-index request body",
	RunE:  runSchema,
}

func init() {
	schemaCmd.Flags().StringVar(&schemaIndexName, "index-name", "", "Index name (required)")
	schemaCmd.Flags().StringVar(&schemaVectorField, "vector-field", "", "Vector field name (default derived from --field-mode)")
	schemaCmd.Flags().IntVar(&schemaDimension, "dimension", 0, "Vector dimension (default from VECTOR_DIMENSION)")
	schemaCmd.Flags().StringVar(&schemaFieldMode, "field-mode", "", "Vector field naming: suffix or fixed (default from VECTOR_FIELD_MODE)")
	schemaCmd.Flags().StringVar(&schemaTextField, "text-field", "", "Optional text field mapping")
	schemaCmd.Flags().StringVar(&schemaMetadataField, "metadata-field", "", "Optional metadata field mapping")
	_ = schemaCmd.MarkFlagRequired("index-name")
}

func runSchema(cmd *cobra.Command, args []string) error {
	props := resource.Properties{
		vectorindex.PropIndexName:     schemaIndexName,
		vectorindex.PropVectorField:   schemaVectorField,
		vectorindex.PropTextField:     schemaTextField,
		vectorindex.PropMetadataField: schemaMetadataField,
	}

	dimension := cfg.VectorDimension
	if schemaDimension != 0 {
		dimension = schemaDimension
	}

	mode := cfg.VectorFieldMode
	if schemaFieldMode != "" {
		mode = schemaFieldMode
	}

	spec, err := vectorindex.FromProperties(props, vectorindex.Defaults{
		Dimension: dimension,
		FieldMode: vectorindex.FieldMode(mode),
	})
	if err != nil {
		return err
	}
	body, err := spec.Body()
	if err != nil {
		return err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, body, "", "  "); err != nil {
		return fmt.Errorf("failed to format body: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), out.String())
	return nil
}
