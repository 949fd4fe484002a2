// Package provisioner turns custom-resource lifecycle events into backend
// operations and always answers with a complete response envelope.
package provisioner

import (
	"context"
	"errors"
	"time"

	"github.com/memememomo/bedrock-iac/internal/logging"
	"github.com/memememomo/bedrock-iac/internal/resource"
)

// Reasons reported on the happy paths.
const (
	ReasonCreated       = "Successfully created the resource"
	ReasonUpdated       = "Successfully updated the resource"
	ReasonDeleted       = "Successfully deleted the resource"
	ReasonAlreadyExists = "Resource already exists"
	ReasonUnknown       = "Unknown request type"
)

// Backend performs the side effects for one kind of custom resource.
type Backend interface {
	Name() string
	Create(ctx context.Context, props resource.Properties) (resource.Result, error)
	Update(ctx context.Context, props, old resource.Properties) (resource.Result, error)
	// Delete receives the physical id CloudFormation holds for the resource,
	// which is a fallback id when Create never completed.
	Delete(ctx context.Context, physicalID string, props resource.Properties) (resource.Result, error)
}

// Provisioner dispatches lifecycle events to a Backend.
type Provisioner struct {
	backend Backend
	timeout time.Duration
	margin  time.Duration
}

// Option configures a Provisioner.
type Option func(*Provisioner)

// WithTimeouts sets the operation timeout used without a host deadline and the
// margin kept before a host deadline.
func WithTimeouts(timeout, margin time.Duration) Option {
	return func(p *Provisioner) {
		p.timeout = timeout
		p.margin = margin
	}
}

// New creates a Provisioner for backend.
func New(backend Backend, opts ...Option) *Provisioner {
	p := &Provisioner{
		backend: backend,
		timeout: DefaultTimeout,
		margin:  DefaultMargin,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Handle processes one event. Backend failures are reported as FAILED; the
// only error-free FAILED is an unrecognized request type.
func (p *Provisioner) Handle(ctx context.Context, event resource.Event, inv resource.Invocation) resource.Response {
	log := logging.With(
		"backend", p.backend.Name(),
		"requestType", event.RequestType,
		"requestId", event.RequestID,
		"logicalResourceId", event.LogicalResourceID,
	)
	log.Info("received lifecycle event", "physicalResourceId", event.PhysicalResourceID)

	var (
		result  resource.Result
		err     error
		success string
	)

	opCtx, cancel := WithOperationTimeout(ctx, p.timeout, p.margin)
	defer cancel()

	switch event.RequestType {
	case resource.RequestCreate:
		log.Info("creating resource")
		result, err = p.backend.Create(opCtx, event.ResourceProperties)
		success = ReasonCreated
	case resource.RequestUpdate:
		log.Info("updating resource")
		result, err = p.backend.Update(opCtx, event.ResourceProperties, event.OldResourceProperties)
		success = ReasonUpdated
	case resource.RequestDelete:
		log.Info("deleting resource")
		result, err = p.backend.Delete(opCtx, event.PhysicalResourceID, event.ResourceProperties)
		success = ReasonDeleted
	default:
		log.Warn("unknown request type")
		return resource.Failed(event, physicalID(event, resource.Result{}, inv), ReasonUnknown)
	}

	id := physicalID(event, result, inv)

	var resp resource.Response
	switch {
	case errors.Is(err, resource.ErrAlreadyExists):
		log.Info("resource already exists", "error", err)
		resp = resource.Success(event, id, ReasonAlreadyExists, result.Data)
	case err != nil:
		log.Error("lifecycle operation failed", "error", err)
		resp = resource.Failed(event, id, err.Error())
	default:
		resp = resource.Success(event, id, success, result.Data)
	}

	log.Info("responding", "status", resp.Status, "reason", resp.Reason, "physicalResourceId", resp.PhysicalResourceID)
	return resp
}

// physicalID keeps an existing identifier stable across Update and Delete and
// only synthesizes one when the event carries none.
func physicalID(event resource.Event, result resource.Result, inv resource.Invocation) string {
	if event.PhysicalResourceID != "" {
		return event.PhysicalResourceID
	}
	if result.PhysicalResourceID != "" {
		return result.PhysicalResourceID
	}
	return inv.FallbackPhysicalID(event)
}
