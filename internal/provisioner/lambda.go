package provisioner

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-lambda-go/cfn"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/memememomo/bedrock-iac/internal/resource"
)

// Ways the function can be invoked by CloudFormation.
const (
	// ModeProvider is the CDK Provider framework onEvent contract. The
	// framework owns the ResponseURL and treats a function error as FAILED.
	ModeProvider = "provider"
	// ModeServiceToken is a function used directly as a service token; the
	// response is posted to the event's pre-signed ResponseURL.
	ModeServiceToken = "service-token"
)

// LambdaHandler returns a handler for the CDK Provider framework. A FAILED
// envelope is also returned as an error so the framework reports it.
func (p *Provisioner) LambdaHandler() func(context.Context, resource.Event) (resource.Response, error) {
	return func(ctx context.Context, event resource.Event) (resource.Response, error) {
		resp := p.Handle(ctx, event, resource.InvocationFromContext(ctx))
		if resp.Status == resource.StatusFailed {
			return resp, errors.New(resp.Reason)
		}
		return resp, nil
	}
}

// CustomResourceFunction adapts the provisioner to cfn.LambdaWrap, which
// posts the response to the event's pre-signed ResponseURL itself.
func (p *Provisioner) CustomResourceFunction() cfn.CustomResourceFunction {
	return func(ctx context.Context, event cfn.Event) (string, map[string]interface{}, error) {
		resp := p.Handle(ctx, resource.FromCFN(event), resource.InvocationFromContext(ctx))
		if resp.Status == resource.StatusFailed {
			return resp.PhysicalResourceID, nil, errors.New(resp.Reason)
		}
		return resp.PhysicalResourceID, resp.Data, nil
	}
}

// Handler returns the Lambda handler for mode.
func (p *Provisioner) Handler(mode string) (any, error) {
	switch mode {
	case ModeProvider:
		return p.LambdaHandler(), nil
	case ModeServiceToken:
		return cfn.LambdaWrap(p.CustomResourceFunction()), nil
	default:
		return nil, fmt.Errorf("unknown invocation mode: %s", mode)
	}
}

// Start serves Lambda invocations in mode. It does not return.
func (p *Provisioner) Start(mode string) error {
	h, err := p.Handler(mode)
	if err != nil {
		return err
	}
	lambda.Start(h)
	return nil
}
