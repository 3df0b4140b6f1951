// Package render turns a URL into the markup a browser would show for it.
package render

import (
	"context"
	"fmt"
)

// Renderer returns the fully rendered markup for url.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// Step names the stage of rendering that failed.
type Step string

const (
	StepAllocate Step = "allocate"
	StepNavigate Step = "navigate"
	StepWait     Step = "wait"
	StepCapture  Step = "capture"
)

// Error is returned for any failure while rendering.
type Error struct {
	Step Step
	URL  string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("render %s: %s: %v", e.URL, e.Step, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Func adapts a plain function to Renderer.
type Func func(ctx context.Context, url string) (string, error)

func (f Func) Render(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}
