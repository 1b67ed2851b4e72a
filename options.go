package resave

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-resave/resave/store"
)

// Options configures one middleware instance. The zero value is valid and
// resolves to the documented defaults.
type Options struct {
	// BasePath is the directory bundle sources are resolved against.
	// Defaults to the process working directory.
	BasePath string

	// Bundles maps request routes to bundle source paths relative to
	// BasePath, e.g. {"/app.css": "app.scss"}. Requests whose path is not
	// a key in the map pass through to the next handler untouched.
	Bundles map[string]string

	// Log receives the middleware event lines. Defaults to a logger that
	// discards everything.
	Log Logger

	// SavePath enables persistence: compiled output is written to
	// SavePath/<route> before it is served. Empty disables saving.
	SavePath string

	// Store overrides the persistence backend used when SavePath is set.
	// Defaults to a disk store rooted at SavePath.
	Store store.Store
}

// merge layers o over base field by field: set fields in o win, zero fields
// fall back to base. Neither value is modified.
func (base Options) merge(o Options) Options {
	out := base
	if o.BasePath != "" {
		out.BasePath = o.BasePath
	}
	if o.Bundles != nil {
		out.Bundles = o.Bundles
	}
	if o.Log != nil {
		out.Log = o.Log
	}
	if o.SavePath != "" {
		out.SavePath = o.SavePath
	}
	if o.Store != nil {
		out.Store = o.Store
	}
	return out
}

// resolve fills the remaining zero fields with defaults and copies Bundles,
// so callers can keep mutating their map without affecting the instance.
func (o Options) resolve() (Options, error) {
	out := o

	if out.BasePath == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Options{}, fmt.Errorf("resolve base path: %w", err)
		}
		out.BasePath = wd
	}
	absBase, err := filepath.Abs(out.BasePath)
	if err != nil {
		return Options{}, fmt.Errorf("resolve base path: %w", err)
	}
	out.BasePath = absBase

	if out.SavePath != "" {
		absSave, err := filepath.Abs(out.SavePath)
		if err != nil {
			return Options{}, fmt.Errorf("resolve save path: %w", err)
		}
		out.SavePath = absSave
	}

	bundles := make(map[string]string, len(o.Bundles))
	for route, source := range o.Bundles {
		if route == "" {
			return Options{}, errors.New("bundle route required")
		}
		if source == "" {
			return Options{}, fmt.Errorf("bundle source required for route %q", route)
		}
		bundles[route] = source
	}
	out.Bundles = bundles

	if out.Log == nil {
		out.Log = NopLogger()
	}
	return out, nil
}
