package vectorindex

import (
	"testing"

	"github.com/memememomo/bedrock-iac/internal/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromProperties_Defaults(t *testing.T) {
	spec, err := FromProperties(resource.Properties{"indexName": "rag"}, Defaults{})
	require.NoError(t, err)

	assert.Equal(t, "rag", spec.IndexName)
	assert.Equal(t, "rag-vector", spec.VectorField)
	assert.Equal(t, 1536, spec.Dimension)
	assert.Equal(t, Method{Name: "hnsw", Engine: "faiss", EFConstruction: 512, M: 16}, spec.Method)
	assert.Empty(t, spec.Endpoint)
}

func TestFromProperties_Overrides(t *testing.T) {
	tests := []struct {
		name      string
		props     resource.Properties
		defaults  Defaults
		wantField string
		wantDim   int
	}{
		{
			name:      "fixed field mode",
			props:     resource.Properties{"indexName": "rag"},
			defaults:  Defaults{FieldMode: FieldModeFixed},
			wantField: "bedrock-vector",
			wantDim:   1536,
		},
		{
			name:      "explicit field wins over mode",
			props:     resource.Properties{"indexName": "rag", "vectorField": "embedding"},
			defaults:  Defaults{FieldMode: FieldModeFixed},
			wantField: "embedding",
			wantDim:   1536,
		},
		{
			name:      "dimension property ignored",
			props:     resource.Properties{"indexName": "rag", "dimension": "1024"},
			defaults:  Defaults{},
			wantField: "rag-vector",
			wantDim:   1536,
		},
		{
			name:      "process default dimension",
			props:     resource.Properties{"indexName": "rag"},
			defaults:  Defaults{Dimension: 768},
			wantField: "rag-vector",
			wantDim:   768,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := FromProperties(tt.props, tt.defaults)
			require.NoError(t, err)
			assert.Equal(t, tt.wantField, spec.VectorField)
			assert.Equal(t, tt.wantDim, spec.Dimension)
		})
	}
}

func TestFromProperties_Invalid(t *testing.T) {
	_, err := FromProperties(resource.Properties{}, Defaults{})
	assert.ErrorIs(t, err, resource.ErrMissingProperty)

	_, err = FromProperties(resource.Properties{"indexName": "rag", "dimension": "-1"}, Defaults{})
	assert.NoError(t, err)

	_, err = FromProperties(resource.Properties{"indexName": 42.0}, Defaults{})
	assert.ErrorIs(t, err, resource.ErrInvalidProperty)
}

func TestSpec_Body(t *testing.T) {
	spec, err := FromProperties(resource.Properties{"indexName": "rag"}, Defaults{})
	require.NoError(t, err)

	body, err := spec.Body()
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"settings": {"index.knn": true},
		"mappings": {
			"properties": {
				"rag-vector": {
					"type": "knn_vector",
					"dimension": 1536,
					"method": {
						"name": "hnsw",
						"engine": "faiss",
						"parameters": {"ef_construction": 512, "m": 16}
					}
				}
			}
		}
	}`, string(body))
}

func TestSpec_BodyWithTextAndMetadata(t *testing.T) {
	spec, err := FromProperties(resource.Properties{
		"indexName":     "rag",
		"textField":     "text",
		"metadataField": "metadata",
	}, Defaults{FieldMode: FieldModeFixed})
	require.NoError(t, err)

	body, err := spec.Body()
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"settings": {"index.knn": true},
		"mappings": {
			"properties": {
				"bedrock-vector": {
					"type": "knn_vector",
					"dimension": 1536,
					"method": {
						"name": "hnsw",
						"engine": "faiss",
						"parameters": {"ef_construction": 512, "m": 16}
					}
				},
				"text": {"type": "text"},
				"metadata": {"type": "text", "index": false}
			}
		}
	}`, string(body))
}

func TestSpec_Validate(t *testing.T) {
	valid := Spec{IndexName: "rag", VectorField: "rag-vector", Dimension: 1536, Method: DefaultMethod()}
	require.NoError(t, valid.Validate())

	noName := valid
	noName.IndexName = ""
	assert.Error(t, noName.Validate())

	noDim := valid
	noDim.Dimension = 0
	_, err := noDim.Body()
	assert.Error(t, err)

	noMethod := valid
	noMethod.Method = Method{}
	assert.Error(t, noMethod.Validate())
}
