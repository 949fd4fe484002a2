// Package opensearch creates vector indexes through the request-signed
// OpenSearch administrative API, for serverless collections and managed domains.
package opensearch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	osgo "github.com/opensearch-project/opensearch-go/v4"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"
	requestsigner "github.com/opensearch-project/opensearch-go/v4/signer/awsv2"

	"github.com/memememomo/bedrock-iac/internal/logging"
	"github.com/memememomo/bedrock-iac/internal/vectorindex"
)

const alreadyExistsType = "resource_already_exists_exception"

// Client implements vectorindex.IndexCreator with SigV4-signed requests.
type Client struct {
	awsCfg    aws.Config
	service   string
	transport http.RoundTripper
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTransport overrides the HTTP transport.
func WithTransport(rt http.RoundTripper) ClientOption {
	return func(c *Client) { c.transport = rt }
}

// NewClient returns a Client signing for service ("aoss" or "es").
func NewClient(awsCfg aws.Config, service string, opts ...ClientOption) *Client {
	c := &Client{awsCfg: awsCfg, service: service}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) api(endpoint string) (*opensearchapi.Client, error) {
	signer, err := requestsigner.NewSignerWithService(c.awsCfg, c.service)
	if err != nil {
		return nil, fmt.Errorf("failed to create request signer: %w", err)
	}

	client, err := opensearchapi.NewClient(opensearchapi.Config{
		Client: osgo.Config{
			Addresses: []string{endpoint},
			Signer:    signer,
			Transport: c.transport,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create opensearch client for %s: %w", endpoint, err)
	}
	return client, nil
}

// CreateIndex issues exactly one create-index call for spec.
func (c *Client) CreateIndex(ctx context.Context, spec vectorindex.Spec) error {
	body, err := spec.Body()
	if err != nil {
		return fmt.Errorf("invalid index spec: %w", err)
	}

	api, err := c.api(spec.Endpoint)
	if err != nil {
		return err
	}

	logging.Info("creating index", "endpoint", spec.Endpoint, "index", spec.IndexName, "vectorField", spec.VectorField, "dimension", spec.Dimension)

	resp, err := api.Indices.Create(ctx, opensearchapi.IndicesCreateReq{
		Index: spec.IndexName,
		Body:  bytes.NewReader(body),
	})
	if err != nil {
		if isAlreadyExists(err) {
			return fmt.Errorf("index %s: %w", spec.IndexName, vectorindex.ErrIndexExists)
		}
		return fmt.Errorf("failed to create index %s: %w", spec.IndexName, err)
	}
	if !resp.Acknowledged {
		return fmt.Errorf("create index %s was not acknowledged", spec.IndexName)
	}

	logging.Info("index created", "index", resp.Index)
	return nil
}

func isAlreadyExists(err error) bool {
	var se *osgo.StructError
	if errors.As(err, &se) {
		return se.Err.Type == alreadyExistsType
	}
	return strings.Contains(err.Error(), alreadyExistsType)
}
