// Package vectorindex describes the k-NN vector index created for the
// knowledge base and renders its create-index request body.
package vectorindex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/memememomo/bedrock-iac/internal/resource"
)

// Schema constants for the embedding model in use.
const (
	DefaultDimension      = 1536
	DefaultEFConstruction = 512
	DefaultM              = 16

	MethodHNSW  = "hnsw"
	EngineFAISS = "faiss"

	// FixedVectorField is the field name used by FieldModeFixed.
	FixedVectorField = "bedrock-vector"
)

// Property keys read from ResourceProperties.
const (
	PropIndexName     = "indexName"
	PropVectorField   = "vectorField"
	PropTextField     = "textField"
	PropMetadataField = "metadataField"
)

// ErrIndexExists is returned by an IndexCreator when the index is already there.
var ErrIndexExists = errors.New("index already exists")

// FieldMode selects how the vector field is named when not given explicitly.
type FieldMode string

const (
	FieldModeSuffix FieldMode = "suffix" // "<indexName>-vector"
	FieldModeFixed  FieldMode = "fixed"  // "bedrock-vector"
)

// Method is the approximate nearest neighbour method of the vector field.
type Method struct {
	Name           string
	Engine         string
	EFConstruction int
	M              int
}

// DefaultMethod is HNSW over FAISS with ef_construction 512 and m 16.
func DefaultMethod() Method {
	return Method{
		Name:           MethodHNSW,
		Engine:         EngineFAISS,
		EFConstruction: DefaultEFConstruction,
		M:              DefaultM,
	}
}

// Spec is one vector index to create.
type Spec struct {
	Endpoint      string
	IndexName     string
	VectorField   string
	Dimension     int
	Method        Method
	TextField     string
	MetadataField string
}

// Defaults are process-level settings. The dimension is fixed by the
// embedding model and is never read from resource properties.
type Defaults struct {
	Dimension int
	FieldMode FieldMode
}

// VectorFieldName returns the vector field for indexName under mode.
func VectorFieldName(indexName string, mode FieldMode) string {
	if mode == FieldModeFixed {
		return FixedVectorField
	}
	return indexName + "-vector"
}

// FromProperties derives a Spec (without endpoint) from ResourceProperties.
func FromProperties(props resource.Properties, d Defaults) (Spec, error) {
	if d.Dimension <= 0 {
		d.Dimension = DefaultDimension
	}

	indexName, err := props.String(PropIndexName)
	if err != nil {
		return Spec{}, err
	}
	vectorField, err := props.OptionalString(PropVectorField, VectorFieldName(indexName, d.FieldMode))
	if err != nil {
		return Spec{}, err
	}
	textField, err := props.OptionalString(PropTextField, "")
	if err != nil {
		return Spec{}, err
	}
	metadataField, err := props.OptionalString(PropMetadataField, "")
	if err != nil {
		return Spec{}, err
	}

	return Spec{
		IndexName:     indexName,
		VectorField:   vectorField,
		Dimension:     d.Dimension,
		Method:        DefaultMethod(),
		TextField:     textField,
		MetadataField: metadataField,
	}, nil
}

// Validate checks the fields required to build a request.
func (s Spec) Validate() error {
	if s.IndexName == "" {
		return fmt.Errorf("index name is required")
	}
	if s.VectorField == "" {
		return fmt.Errorf("vector field is required")
	}
	if s.Dimension <= 0 {
		return fmt.Errorf("dimension must be positive, got %d", s.Dimension)
	}
	if s.Method.Name == "" || s.Method.Engine == "" {
		return fmt.Errorf("method name and engine are required")
	}
	return nil
}

type indexBody struct {
	Settings map[string]any `json:"settings"`
	Mappings mappings       `json:"mappings"`
}

type mappings struct {
	Properties map[string]fieldMapping `json:"properties"`
}

type fieldMapping struct {
	Type      string         `json:"type"`
	Dimension int            `json:"dimension,omitempty"`
	Method    *methodMapping `json:"method,omitempty"`
	Index     *bool          `json:"index,omitempty"`
}

type methodMapping struct {
	Name       string           `json:"name"`
	Engine     string           `json:"engine"`
	Parameters methodParameters `json:"parameters"`
}

type methodParameters struct {
	EFConstruction int `json:"ef_construction"`
	M              int `json:"m"`
}

// Body renders the create-index request body.
func (s Spec) Body() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	props := map[string]fieldMapping{
		s.VectorField: {
			Type:      "knn_vector",
			Dimension: s.Dimension,
			Method: &methodMapping{
				Name:   s.Method.Name,
				Engine: s.Method.Engine,
				Parameters: methodParameters{
					EFConstruction: s.Method.EFConstruction,
					M:              s.Method.M,
				},
			},
		},
	}
	if s.TextField != "" {
		props[s.TextField] = fieldMapping{Type: "text"}
	}
	if s.MetadataField != "" {
		notIndexed := false
		props[s.MetadataField] = fieldMapping{Type: "text", Index: &notIndexed}
	}

	return json.Marshal(indexBody{
		Settings: map[string]any{"index.knn": true},
		Mappings: mappings{Properties: props},
	})
}

// IndexCreator creates vector indexes against a search endpoint.
type IndexCreator interface {
	CreateIndex(ctx context.Context, spec Spec) error
}
