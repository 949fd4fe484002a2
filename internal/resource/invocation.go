package resource

import (
	"context"

	"github.com/aws/aws-lambda-go/lambdacontext"
)

// Invocation identifies the execution handling an event.
type Invocation struct {
	RequestID     string
	LogGroupName  string
	LogStreamName string
}

// InvocationFromContext reads the Lambda invocation identifiers.
func InvocationFromContext(ctx context.Context) Invocation {
	inv := Invocation{
		LogGroupName:  lambdacontext.LogGroupName,
		LogStreamName: lambdacontext.LogStreamName,
	}
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		inv.RequestID = lc.AwsRequestID
	}
	return inv
}

// FallbackPhysicalID returns the identifier used when neither the event nor
// the backend supplies one. It is never empty.
func (i Invocation) FallbackPhysicalID(e Event) string {
	switch {
	case i.LogGroupName != "":
		return i.LogGroupName
	case i.LogStreamName != "":
		return i.LogStreamName
	default:
		return e.LogicalResourceID + "-" + e.RequestID
	}
}
