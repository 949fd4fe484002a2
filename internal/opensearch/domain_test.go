package opensearch

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsopensearch "github.com/aws/aws-sdk-go-v2/service/opensearch"
	"github.com/aws/aws-sdk-go-v2/service/opensearch/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDomainAPI struct {
	status *types.DomainStatus
	err    error
	asked  string
}

func (f *fakeDomainAPI) DescribeDomain(_ context.Context, in *awsopensearch.DescribeDomainInput, _ ...func(*awsopensearch.Options)) (*awsopensearch.DescribeDomainOutput, error) {
	f.asked = aws.ToString(in.DomainName)
	if f.err != nil {
		return nil, f.err
	}
	return &awsopensearch.DescribeDomainOutput{DomainStatus: f.status}, nil
}

func TestDomainResolver_Endpoint(t *testing.T) {
	tests := []struct {
		name    string
		status  *types.DomainStatus
		err     error
		want    string
		wantErr string
	}{
		{
			name:   "public endpoint",
			status: &types.DomainStatus{Endpoint: aws.String("search-kb.us-east-1.es.amazonaws.com")},
			want:   "https://search-kb.us-east-1.es.amazonaws.com",
		},
		{
			name:   "vpc endpoint",
			status: &types.DomainStatus{Endpoints: map[string]string{"vpc": "vpc-kb.us-east-1.es.amazonaws.com"}},
			want:   "https://vpc-kb.us-east-1.es.amazonaws.com",
		},
		{
			name:    "still processing",
			status:  &types.DomainStatus{},
			wantErr: "has no endpoint yet",
		},
		{
			name:    "api error",
			err:     errors.New("ResourceNotFoundException"),
			wantErr: "failed to describe domain kb",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeDomainAPI{status: tt.status, err: tt.err}
			got, err := NewDomainResolver(api).Endpoint(context.Background(), "kb")

			assert.Equal(t, "kb", api.asked)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
