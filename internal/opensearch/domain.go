package opensearch

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsopensearch "github.com/aws/aws-sdk-go-v2/service/opensearch"
)

// DomainAPI is the subset of the OpenSearch Service API used here.
type DomainAPI interface {
	DescribeDomain(ctx context.Context, params *awsopensearch.DescribeDomainInput, optFns ...func(*awsopensearch.Options)) (*awsopensearch.DescribeDomainOutput, error)
}

// DomainResolver looks up the HTTPS endpoint of a managed domain.
type DomainResolver struct {
	api DomainAPI
}

func NewDomainResolver(api DomainAPI) *DomainResolver {
	return &DomainResolver{api: api}
}

// Endpoint returns the domain endpoint, preferring the public one over a VPC endpoint.
func (r *DomainResolver) Endpoint(ctx context.Context, domainName string) (string, error) {
	out, err := r.api.DescribeDomain(ctx, &awsopensearch.DescribeDomainInput{
		DomainName: aws.String(domainName),
	})
	if err != nil {
		return "", fmt.Errorf("failed to describe domain %s: %w", domainName, err)
	}
	if out.DomainStatus == nil {
		return "", fmt.Errorf("domain %s has no status", domainName)
	}

	status := out.DomainStatus
	if status.Endpoint != nil && *status.Endpoint != "" {
		return "https://" + *status.Endpoint, nil
	}
	if ep, ok := status.Endpoints["vpc"]; ok && ep != "" {
		return "https://" + ep, nil
	}
	return "", fmt.Errorf("domain %s has no endpoint yet", domainName)
}
