package provisioner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWithOperationTimeout_NoParentDeadline(t *testing.T) {
	ctx, cancel := WithOperationTimeout(context.Background(), 0, DefaultMargin)
	defer cancel()

	deadline, ok := ctx.Deadline()
	assert.True(t, ok)
	assert.True(t, deadline.After(time.Now().Add(DefaultTimeout-time.Minute)))

	ctx2, cancel2 := WithOperationTimeout(context.Background(), 5*time.Second, DefaultMargin)
	defer cancel2()
	deadline2, ok := ctx2.Deadline()
	assert.True(t, ok)
	assert.True(t, deadline2.Before(time.Now().Add(10*time.Second)))
}

func TestWithOperationTimeout_ParentDeadlineMinusMargin(t *testing.T) {
	parentDeadline := time.Now().Add(time.Minute)
	parent, cancel := context.WithDeadline(context.Background(), parentDeadline)
	defer cancel()

	ctx, cancel2 := WithOperationTimeout(parent, time.Hour, 10*time.Second)
	defer cancel2()

	deadline, ok := ctx.Deadline()
	assert.True(t, ok)
	assert.Equal(t, parentDeadline.Add(-10*time.Second), deadline)
}

func TestWithOperationTimeout_MarginLargerThanRemaining(t *testing.T) {
	parentDeadline := time.Now().Add(2 * time.Second)
	parent, cancel := context.WithDeadline(context.Background(), parentDeadline)
	defer cancel()

	ctx, cancel2 := WithOperationTimeout(parent, time.Hour, time.Minute)
	defer cancel2()

	deadline, ok := ctx.Deadline()
	assert.True(t, ok)
	assert.Equal(t, parentDeadline, deadline)
}
