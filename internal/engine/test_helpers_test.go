package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mediaflow/mediaflow/internal/plugin"
)

// fakePlugin is a configurable in-memory plugin for executor tests.
type fakePlugin struct {
	name    string
	inputs  []string
	outputs []string

	delay       time.Duration
	failOutputs map[string]bool
	blockUntil  chan struct{}

	mu       sync.Mutex
	executed []string
	inflight int
	maxSeen  int
	workDirs []string
}

func newFakePlugin(name string, inputs, outputs []string) *fakePlugin {
	return &fakePlugin{
		name:        name,
		inputs:      inputs,
		outputs:     outputs,
		failOutputs: make(map[string]bool),
	}
}

func (f *fakePlugin) Name() string { return f.name }

func (f *fakePlugin) Config() plugin.Descriptor {
	return plugin.Descriptor{Name: f.name, Inputs: f.inputs, Outputs: f.outputs}
}

func (f *fakePlugin) SupportsInput(tag string) bool {
	return plugin.ContainsTag(f.inputs, tag)
}

func (f *fakePlugin) ProducesOutput(tag string) bool {
	return plugin.ContainsTag(f.outputs, tag)
}

func (f *fakePlugin) Execute(ctx context.Context, execCtx plugin.ExecContext, req plugin.Request) (*plugin.Response, error) {
	f.mu.Lock()
	f.inflight++
	if f.inflight > f.maxSeen {
		f.maxSeen = f.inflight
	}
	f.workDirs = append(f.workDirs, execCtx.WorkDir)
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inflight--
		f.executed = append(f.executed, req.OutputType)
		f.mu.Unlock()
	}()

	if f.blockUntil != nil {
		select {
		case <-f.blockUntil:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if f.failOutputs[req.OutputType] {
		return nil, plugin.NewExecutionFailedError(f.name, fmt.Errorf("forced failure for %s", req.OutputType))
	}

	return &plugin.Response{
		OutputType: req.OutputType,
		Payload:    fmt.Sprintf("%s:%s", f.name, req.OutputType),
	}, nil
}

func (f *fakePlugin) executionOrder() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.executed...)
}

func (f *fakePlugin) maxInflight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxSeen
}

func (f *fakePlugin) seenWorkDirs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.workDirs...)
}
