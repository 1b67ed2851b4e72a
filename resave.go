package resave

import (
	"errors"
	"fmt"
	"mime"
	"path"
	"path/filepath"

	"github.com/gofiber/fiber/v3"

	"github.com/go-resave/resave/store"
)

// Generator builds middleware instances around one Bundler. The zero value
// is not usable; construct it with New.
type Generator struct {
	bundler  Bundler
	defaults Options
}

// New returns a Generator that compiles bundles with b. The optional
// defaults are merged underneath the Options given to each Middleware call.
func New(b Bundler, defaults ...Options) *Generator {
	g := &Generator{bundler: b}
	if len(defaults) > 0 {
		g.defaults = defaults[0]
	}
	return g
}

// Middleware resolves opts against the generator defaults and returns a
// handler serving the configured bundles. Every call produces an
// independent instance: later changes to opts, or to the map inside it, do
// not affect handlers built earlier.
//
// For each request whose path matches a key in Bundles the handler compiles
// the mapped source, persists the output when SavePath is set, and serves
// it with the MIME type implied by the route extension. Compile and save
// failures are returned as *CompileError and *SaveError without writing a
// response, leaving the reply to the application error handler.
func (g *Generator) Middleware(opts Options) (fiber.Handler, error) {
	if g == nil || g.bundler == nil {
		return nil, errors.New("resave: bundler required")
	}

	cfg, err := g.defaults.merge(opts).resolve()
	if err != nil {
		return nil, err
	}

	var st store.Store
	if cfg.SavePath != "" {
		st = cfg.Store
		if st == nil {
			st, err = store.New(cfg.SavePath)
			if err != nil {
				return nil, err
			}
		}
	}

	bundler := g.bundler

	return func(c fiber.Ctx) error {
		// URI().Path() excludes query string and fragment already.
		route := string(c.Request().URI().Path())

		source, ok := cfg.Bundles[route]
		if !ok {
			return c.Next()
		}

		ctx := c.Context()

		req := Request{
			Route:      route,
			SourcePath: filepath.Join(cfg.BasePath, filepath.FromSlash(source)),
			Options:    cfg,
		}
		if cfg.SavePath != "" {
			req.SavePath = filepath.Join(cfg.SavePath, filepath.FromSlash(route))
		}

		content, err := bundler.Compile(ctx, req)
		if err != nil {
			cerr := &CompileError{Route: route, Source: req.SourcePath, Err: err}
			cfg.Log.Error(cerr.Error())
			return cerr
		}
		cfg.Log.Info(fmt.Sprintf("Bundle %q compiled", route))

		if st != nil {
			if _, err := st.Put(ctx, route, content); err != nil {
				serr := &SaveError{Route: route, Err: err}
				cfg.Log.Error(serr.Error())
				return serr
			}
			cfg.Log.Info(fmt.Sprintf("Bundle %q saved", route))
		}

		cfg.Log.Info(fmt.Sprintf("Bundle %q served", route))
		c.Set("Content-Type", contentTypeFor(route))
		c.Status(fiber.StatusOK)
		return c.Send(content)
	}, nil
}

// contentTypeFor maps the route extension onto a MIME type, falling back to
// application/octet-stream when the extension is unknown.
func contentTypeFor(route string) string {
	if ct := mime.TypeByExtension(path.Ext(route)); ct != "" {
		return ct
	}
	return fiber.MIMEOctetStream
}
