package opensearch

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsopensearch "github.com/aws/aws-sdk-go-v2/service/opensearch"

	"github.com/memememomo/bedrock-iac/internal/config"
	"github.com/memememomo/bedrock-iac/internal/logging"
	"github.com/memememomo/bedrock-iac/internal/resource"
	"github.com/memememomo/bedrock-iac/internal/vectorindex"
)

// Property keys locating the search endpoint.
const (
	PropCollectionEndpoint = "collectionEndpoint"
	PropDomainName         = "domainName"
)

// EndpointResolver maps a managed domain name to its endpoint.
type EndpointResolver interface {
	Endpoint(ctx context.Context, domainName string) (string, error)
}

// Backend creates the knowledge-base index on Create. Update and Delete leave
// the index untouched; the collection owner removes it with the collection.
type Backend struct {
	creator  vectorindex.IndexCreator
	resolver EndpointResolver
	defaults vectorindex.Defaults
}

// NewBackend wires a Backend. resolver may be nil, in which case
// collectionEndpoint is required.
func NewBackend(creator vectorindex.IndexCreator, resolver EndpointResolver, defaults vectorindex.Defaults) *Backend {
	return &Backend{creator: creator, resolver: resolver, defaults: defaults}
}

// NewBackendFromConfig builds a Backend using the default AWS credential chain.
func NewBackendFromConfig(ctx context.Context, cfg *config.Config) (*Backend, error) {
	if err := cfg.RequireRegion(); err != nil {
		return nil, err
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}

	return NewBackend(
		NewClient(awsCfg, cfg.SigningService),
		NewDomainResolver(awsopensearch.NewFromConfig(awsCfg)),
		vectorindex.Defaults{
			Dimension: cfg.VectorDimension,
			FieldMode: vectorindex.FieldMode(cfg.VectorFieldMode),
		},
	), nil
}

func (b *Backend) Name() string { return "opensearch" }

// Spec derives the index spec and endpoint from props without side effects
// other than an optional domain lookup.
func (b *Backend) Spec(ctx context.Context, props resource.Properties) (vectorindex.Spec, error) {
	spec, err := vectorindex.FromProperties(props, b.defaults)
	if err != nil {
		return vectorindex.Spec{}, err
	}
	endpoint, err := b.endpoint(ctx, props)
	if err != nil {
		return vectorindex.Spec{}, err
	}
	spec.Endpoint = endpoint
	return spec, nil
}

func (b *Backend) Create(ctx context.Context, props resource.Properties) (resource.Result, error) {
	spec, err := b.Spec(ctx, props)
	if err != nil {
		return resource.Result{}, err
	}

	result := resource.Result{Data: map[string]any{
		"IndexName":   spec.IndexName,
		"VectorField": spec.VectorField,
		"Dimension":   spec.Dimension,
	}}

	err = b.creator.CreateIndex(ctx, spec)
	if errors.Is(err, vectorindex.ErrIndexExists) {
		return result, fmt.Errorf("%w: %w", resource.ErrAlreadyExists, err)
	}
	if err != nil {
		return resource.Result{}, err
	}
	return result, nil
}

func (b *Backend) Update(_ context.Context, props, old resource.Properties) (resource.Result, error) {
	newName, _ := props.OptionalString(vectorindex.PropIndexName, "")
	oldName, _ := old.OptionalString(vectorindex.PropIndexName, "")
	if newName != oldName {
		logging.Warn("index properties changed; existing index is not modified", "index", oldName, "requested", newName)
	}
	return resource.Result{}, nil
}

func (b *Backend) Delete(_ context.Context, _ string, props resource.Properties) (resource.Result, error) {
	name, _ := props.OptionalString(vectorindex.PropIndexName, "")
	logging.Info("index is retained on delete", "index", name)
	return resource.Result{}, nil
}

func (b *Backend) endpoint(ctx context.Context, props resource.Properties) (string, error) {
	raw, err := props.OptionalString(PropCollectionEndpoint, "")
	if err != nil {
		return "", err
	}

	if raw == "" {
		domain, err := props.OptionalString(PropDomainName, "")
		if err != nil {
			return "", err
		}
		if domain == "" || b.resolver == nil {
			return "", &resource.PropertyError{Key: PropCollectionEndpoint, Err: resource.ErrMissingProperty}
		}
		if raw, err = b.resolver.Endpoint(ctx, domain); err != nil {
			return "", err
		}
	}

	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return "", &resource.PropertyError{
			Key:    PropCollectionEndpoint,
			Detail: fmt.Sprintf("expected an http(s) URL, got %q", raw),
			Err:    resource.ErrInvalidProperty,
		}
	}
	return raw, nil
}
