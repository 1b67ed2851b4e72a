// Package raw registers the builtin pass-through bundler, which serves
// bundle sources byte for byte.
package raw

import (
	"context"
	"fmt"
	"os"

	"github.com/go-resave/resave"
	"github.com/go-resave/resave/bundlers"
)

// Bundler reads the bundle source file and returns it untouched. It is the
// default backend for daemon configs that name no bundler, and doubles as a
// smoke test for the full compile/save/serve pipeline.
type Bundler struct{}

// Compile implements resave.Bundler.
func (Bundler) Compile(ctx context.Context, req resave.Request) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	content, err := os.ReadFile(req.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	return content, nil
}

func init() {
	bundlers.MustRegister(bundlers.Registration{
		Key:         "raw",
		Description: "Pass-through bundler that serves the source file byte for byte",
		Bundler:     Bundler{},
	})
}
