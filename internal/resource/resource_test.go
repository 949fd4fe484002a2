package resource

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-lambda-go/cfn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProperties_String(t *testing.T) {
	p := Properties{"indexName": " rag ", "empty": "", "num": 3.0}

	v, err := p.String("indexName")
	require.NoError(t, err)
	assert.Equal(t, "rag", v)

	_, err = p.String("collectionEndpoint")
	assert.ErrorIs(t, err, ErrMissingProperty)
	assert.EqualError(t, err, "missing property collectionEndpoint")

	_, err = p.String("empty")
	assert.ErrorIs(t, err, ErrMissingProperty)

	_, err = p.String("num")
	assert.ErrorIs(t, err, ErrInvalidProperty)

	var perr *PropertyError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "num", perr.Key)
}

func TestProperties_OptionalString(t *testing.T) {
	p := Properties{"vectorField": "custom"}

	v, err := p.OptionalString("vectorField", "def")
	require.NoError(t, err)
	assert.Equal(t, "custom", v)

	v, err = p.OptionalString("textField", "def")
	require.NoError(t, err)
	assert.Equal(t, "def", v)
}

func TestProperties_Int(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    int
		wantErr error
	}{
		{name: "string from cloudformation", value: "1536", want: 1536},
		{name: "json number", value: 1024.0, want: 1024},
		{name: "native int", value: 8, want: 8},
		{name: "fractional", value: 1.5, wantErr: ErrInvalidProperty},
		{name: "not a number", value: "abc", wantErr: ErrInvalidProperty},
		{name: "zero", value: "0", wantErr: ErrInvalidProperty},
		{name: "wrong type", value: true, wantErr: ErrInvalidProperty},
		{name: "nil", value: nil, wantErr: ErrMissingProperty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Properties{"dimension": tt.value}.Int("dimension")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvent_DecodeProviderPayload(t *testing.T) {
	raw := `{
		"RequestType": "Update",
		"StackId": "s1",
		"RequestId": "r1",
		"LogicalResourceId": "L1",
		"PhysicalResourceId": "P1",
		"ResourceProperties": {"collectionEndpoint": "https://x.example", "indexName": "rag"},
		"OldResourceProperties": {"indexName": "old"}
	}`

	var e Event
	require.NoError(t, json.Unmarshal([]byte(raw), &e))
	assert.Equal(t, RequestUpdate, e.RequestType)
	assert.Equal(t, "P1", e.PhysicalResourceID)
	assert.Equal(t, "rag", e.ResourceProperties["indexName"])
	assert.Equal(t, "old", e.OldResourceProperties["indexName"])
}

func TestFromCFN(t *testing.T) {
	e := FromCFN(cfn.Event{
		RequestType:        cfn.RequestDelete,
		StackID:            "s1",
		RequestID:          "r1",
		LogicalResourceID:  "L1",
		PhysicalResourceID: "PineconeIndex",
		ResponseURL:        "https://cfn.example/response",
		ResourceProperties: map[string]interface{}{"indexName": "rag"},
	})

	assert.Equal(t, RequestDelete, e.RequestType)
	assert.Equal(t, "s1", e.StackID)
	assert.Equal(t, "r1", e.RequestID)
	assert.Equal(t, "L1", e.LogicalResourceID)
	assert.Equal(t, "PineconeIndex", e.PhysicalResourceID)
	assert.Equal(t, "https://cfn.example/response", e.ResponseURL)
	assert.Equal(t, "rag", e.ResourceProperties["indexName"])
}

func TestResponse_JSONShape(t *testing.T) {
	e := Event{StackID: "s1", RequestID: "r1", LogicalResourceID: "L1"}
	b, err := json.Marshal(Failed(e, "pid", "Unknown request type"))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"Status": "FAILED",
		"Reason": "Unknown request type",
		"StackId": "s1",
		"RequestId": "r1",
		"LogicalResourceId": "L1",
		"PhysicalResourceId": "pid"
	}`, string(b))
}

func TestInvocation_FallbackPhysicalID(t *testing.T) {
	e := Event{LogicalResourceID: "L1", RequestID: "r1"}

	assert.Equal(t, "/aws/lambda/fn", Invocation{LogGroupName: "/aws/lambda/fn", LogStreamName: "stream"}.FallbackPhysicalID(e))
	assert.Equal(t, "stream", Invocation{LogStreamName: "stream"}.FallbackPhysicalID(e))
	assert.Equal(t, "L1-r1", Invocation{}.FallbackPhysicalID(e))
}
