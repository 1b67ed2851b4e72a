package resave

import "context"

// Request carries everything a Bundler needs to compile one bundle.
type Request struct {
	// Route is the request path that selected the bundle, e.g. "/app.css".
	Route string
	// SourcePath is the absolute path of the bundle source, resolved
	// against Options.BasePath.
	SourcePath string
	// SavePath is the absolute path the compiled output will be persisted
	// to after a successful compile, or "" when saving is disabled.
	SavePath string
	// Options is the resolved configuration of the middleware instance
	// that issued the request.
	Options Options
}

// Bundler compiles one bundle source into servable content. Implementations
// are invoked once per matching request; the middleware never retries and
// never coalesces concurrent compiles for the same route.
type Bundler interface {
	Compile(ctx context.Context, req Request) ([]byte, error)
}

// BundlerFunc adapts a plain function to the Bundler interface.
type BundlerFunc func(ctx context.Context, req Request) ([]byte, error)

// Compile implements Bundler.
func (f BundlerFunc) Compile(ctx context.Context, req Request) ([]byte, error) {
	return f(ctx, req)
}
