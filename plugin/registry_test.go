package plugin_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/calo/design"
	"github.com/xraph/calo/material"
	"github.com/xraph/calo/plugin"
	"github.com/xraph/calo/report"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type counting struct {
	name   string
	built  atomic.Int32
	failed atomic.Int32
	err    error
}

func (c *counting) Name() string { return c.name }

func (c *counting) OnDesignBuilt(context.Context, *report.Report) error {
	c.built.Add(1)
	return c.err
}

func (c *counting) OnBuildFailed(context.Context, string, design.Variant, error) error {
	c.failed.Add(1)
	return c.err
}

type nameOnly struct{}

func (nameOnly) Name() string { return "bare" }

func TestRegisterRejectsDuplicateNames(t *testing.T) {
	r := plugin.NewRegistry().WithLogger(discard)
	require.NoError(t, r.Register(&counting{name: "a"}))
	require.Error(t, r.Register(&counting{name: "a"}))
	require.NoError(t, r.Register(nameOnly{}))

	assert.Equal(t, 2, r.Count())
	assert.NotNil(t, r.Get("a"))
	assert.Nil(t, r.Get("missing"))
	assert.Len(t, r.List(), 2)
}

func TestEmitReachesOnlyImplementers(t *testing.T) {
	r := plugin.NewRegistry().WithLogger(discard)
	a := &counting{name: "a"}
	b := &counting{name: "b", err: errors.New("boom")}
	require.NoError(t, r.Register(a))
	require.NoError(t, r.Register(b))
	require.NoError(t, r.Register(nameOnly{}))

	ctx := context.Background()
	r.EmitDesignBuilt(ctx, &report.Report{Name: "x"})
	r.EmitBuildFailed(ctx, "y", design.Sampling, errors.New("bad"))
	r.EmitCatalogOverridden(ctx, material.Lead, material.Props{})

	assert.EqualValues(t, 1, a.built.Load())
	assert.EqualValues(t, 1, a.failed.Load())
	// A failing hook is logged, not propagated, and does not stop the others.
	assert.EqualValues(t, 1, b.built.Load())
	assert.EqualValues(t, 1, b.failed.Load())
}

type slow struct{ release chan struct{} }

func (slow) Name() string { return "slow" }

func (s slow) OnDesignBuilt(context.Context, *report.Report) error {
	<-s.release
	return nil
}

func TestHookTimeoutDoesNotBlockEmit(t *testing.T) {
	s := slow{release: make(chan struct{})}
	defer close(s.release)

	r := plugin.NewRegistry().WithLogger(discard).WithTimeout(20 * time.Millisecond)
	require.NoError(t, r.Register(s))

	start := time.Now()
	r.EmitDesignBuilt(context.Background(), &report.Report{})
	assert.Less(t, time.Since(start), 2*time.Second)
}
