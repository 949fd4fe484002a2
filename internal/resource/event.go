// Package resource models the custom-resource lifecycle contract: the event
// delivered by the orchestration layer and the response envelope returned to it.
package resource

import (
	"github.com/aws/aws-lambda-go/cfn"
)

// RequestType is the lifecycle event kind.
type RequestType string

const (
	RequestCreate RequestType = "Create"
	RequestUpdate RequestType = "Update"
	RequestDelete RequestType = "Delete"
)

// Event is one lifecycle notification. It decodes both the CDK provider
// framework payload and a raw CloudFormation custom-resource request.
type Event struct {
	RequestType           RequestType `json:"RequestType"`
	ServiceToken          string      `json:"ServiceToken,omitempty"`
	ResponseURL           string      `json:"ResponseURL,omitempty"`
	StackID               string      `json:"StackId"`
	RequestID             string      `json:"RequestId"`
	ResourceType          string      `json:"ResourceType,omitempty"`
	LogicalResourceID     string      `json:"LogicalResourceId"`
	PhysicalResourceID    string      `json:"PhysicalResourceId,omitempty"`
	ResourceProperties    Properties  `json:"ResourceProperties,omitempty"`
	OldResourceProperties Properties  `json:"OldResourceProperties,omitempty"`
}

// FromCFN converts an aws-lambda-go CloudFormation event.
func FromCFN(e cfn.Event) Event {
	return Event{
		RequestType:           RequestType(e.RequestType),
		ResponseURL:           e.ResponseURL,
		StackID:               e.StackID,
		RequestID:             e.RequestID,
		ResourceType:          e.ResourceType,
		LogicalResourceID:     e.LogicalResourceID,
		PhysicalResourceID:    e.PhysicalResourceID,
		ResourceProperties:    Properties(e.ResourceProperties),
		OldResourceProperties: Properties(e.OldResourceProperties),
	}
}
