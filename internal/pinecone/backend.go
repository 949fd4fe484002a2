// Package pinecone provisions a Pinecone serverless index as the knowledge
// base's vector store and publishes its host through Secrets Manager.
package pinecone

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/pinecone-io/go-pinecone/pinecone"

	"github.com/memememomo/bedrock-iac/internal/logging"
	"github.com/memememomo/bedrock-iac/internal/resource"
)

// Property keys read from ResourceProperties.
const (
	PropRegion                  = "region"
	PropIndexName               = "indexName"
	PropDimension               = "dimension"
	PropAPIKeySecretName        = "apiKeySecretName"
	PropIndexEndpointSecretName = "indexEndpointSecretName"
)

// PhysicalID is the physical resource id reported once this resource has
// created the index. Any other id on Delete means Create never completed.
const PhysicalID = "PineconeIndex"

// IndexAPI is the subset of the Pinecone control plane used here.
type IndexAPI interface {
	CreateServerlessIndex(ctx context.Context, in *pinecone.CreateServerlessIndexRequest) (*pinecone.Index, error)
	DeleteIndex(ctx context.Context, idxName string) error
}

// IndexAPIFactory builds an IndexAPI for an API key.
type IndexAPIFactory func(apiKey string) (IndexAPI, error)

// SecretStoreFactory builds a SecretStore for a region.
type SecretStoreFactory func(ctx context.Context, region string) (*SecretStore, error)

// Params are the validated resource properties.
type Params struct {
	Region                  string
	IndexName               string
	Dimension               int32
	APIKeySecretName        string
	IndexEndpointSecretName string
}

// ParamsFromProperties validates and extracts Params.
func ParamsFromProperties(props resource.Properties) (Params, error) {
	var (
		p   Params
		err error
	)
	if p.Region, err = props.String(PropRegion); err != nil {
		return Params{}, err
	}
	if p.IndexName, err = props.String(PropIndexName); err != nil {
		return Params{}, err
	}
	dim, err := props.Int(PropDimension)
	if err != nil {
		return Params{}, err
	}
	if dim > math.MaxInt32 {
		return Params{}, &resource.PropertyError{
			Key:    PropDimension,
			Detail: fmt.Sprintf("must be at most %d, got %d", math.MaxInt32, dim),
			Err:    resource.ErrInvalidProperty,
		}
	}
	p.Dimension = int32(dim)
	if p.APIKeySecretName, err = props.String(PropAPIKeySecretName); err != nil {
		return Params{}, err
	}
	if p.IndexEndpointSecretName, err = props.String(PropIndexEndpointSecretName); err != nil {
		return Params{}, err
	}
	return p, nil
}

// Backend creates and deletes the Pinecone index.
type Backend struct {
	newSecrets SecretStoreFactory
	newIndexes IndexAPIFactory
}

func NewBackend(secrets SecretStoreFactory, indexes IndexAPIFactory) *Backend {
	return &Backend{newSecrets: secrets, newIndexes: indexes}
}

// NewDefaultBackend talks to Secrets Manager with the default credential
// chain and to the Pinecone control plane with the stored API key.
func NewDefaultBackend() *Backend {
	return NewBackend(
		func(ctx context.Context, region string) (*SecretStore, error) {
			cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
			if err != nil {
				return nil, fmt.Errorf("unable to load AWS config: %w", err)
			}
			return NewSecretStore(secretsmanager.NewFromConfig(cfg)), nil
		},
		func(apiKey string) (IndexAPI, error) {
			client, err := pinecone.NewClient(pinecone.NewClientParams{ApiKey: apiKey})
			if err != nil {
				return nil, fmt.Errorf("failed to create pinecone client: %w", err)
			}
			return client, nil
		},
	)
}

func (b *Backend) Name() string { return "pinecone" }

func (b *Backend) Create(ctx context.Context, props resource.Properties) (resource.Result, error) {
	p, err := ParamsFromProperties(props)
	if err != nil {
		return resource.Result{}, err
	}
	secrets, indexes, err := b.clients(ctx, p)
	if err != nil {
		return resource.Result{}, err
	}

	logging.Info("creating pinecone index", "index", p.IndexName, "dimension", p.Dimension, "region", p.Region)

	idx, err := indexes.CreateServerlessIndex(ctx, &pinecone.CreateServerlessIndexRequest{
		Name:      p.IndexName,
		Dimension: p.Dimension,
		Metric:    pinecone.Cosine,
		Cloud:     pinecone.Aws,
		Region:    p.Region,
	})
	if err != nil {
		// Never adopt an index this resource did not create.
		if hasStatus(err, http.StatusConflict) {
			return resource.Result{}, fmt.Errorf("index %s already exists and is not managed by this resource", p.IndexName)
		}
		return resource.Result{}, fmt.Errorf("failed to create index %s: %w", p.IndexName, err)
	}

	if err := secrets.SaveEndpoint(ctx, p.IndexEndpointSecretName, idx.Host); err != nil {
		return resource.Result{}, err
	}

	return resource.Result{
		PhysicalResourceID: PhysicalID,
		Data:               map[string]any{"Host": idx.Host, "IndexName": p.IndexName},
	}, nil
}

// Update changes nothing; dimension and metric of a serverless index are immutable.
func (b *Backend) Update(_ context.Context, props, _ resource.Properties) (resource.Result, error) {
	name, _ := props.OptionalString(PropIndexName, "")
	logging.Warn("pinecone index is not modified on update", "index", name)
	return resource.Result{PhysicalResourceID: PhysicalID}, nil
}

func (b *Backend) Delete(ctx context.Context, physicalID string, props resource.Properties) (resource.Result, error) {
	if physicalID != PhysicalID {
		logging.Info("index was never created by this resource; nothing to delete", "physicalResourceId", physicalID)
		return resource.Result{PhysicalResourceID: physicalID}, nil
	}

	p, err := ParamsFromProperties(props)
	if err != nil {
		return resource.Result{}, err
	}
	secrets, indexes, err := b.clients(ctx, p)
	if err != nil {
		return resource.Result{}, err
	}

	logging.Info("deleting pinecone index", "index", p.IndexName)
	if err := indexes.DeleteIndex(ctx, p.IndexName); err != nil {
		if !hasStatus(err, http.StatusNotFound) {
			return resource.Result{}, fmt.Errorf("failed to delete index %s: %w", p.IndexName, err)
		}
		logging.Info("pinecone index already gone", "index", p.IndexName)
	}

	if err := secrets.DeleteEndpoint(ctx, p.IndexEndpointSecretName); err != nil {
		return resource.Result{}, err
	}
	return resource.Result{PhysicalResourceID: PhysicalID}, nil
}

func (b *Backend) clients(ctx context.Context, p Params) (*SecretStore, IndexAPI, error) {
	secrets, err := b.newSecrets(ctx, p.Region)
	if err != nil {
		return nil, nil, err
	}
	apiKey, err := secrets.APIKey(ctx, p.APIKeySecretName)
	if err != nil {
		return nil, nil, err
	}
	indexes, err := b.newIndexes(apiKey)
	if err != nil {
		return nil, nil, err
	}
	return secrets, indexes, nil
}

func hasStatus(err error, code int) bool {
	var pe *pinecone.PineconeError
	return errors.As(err, &pe) && pe.Code == code
}
