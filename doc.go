// Package resave implements connect-style resave middleware for Fiber: a
// Generator pairs a Bundler (the compile step, supplied by the caller) with
// per-instance Options and yields a fiber.Handler that compiles mapped
// bundles on demand, optionally persists the output, and serves it with the
// MIME type derived from the route extension. Routes without a bundle
// mapping fall through to the next handler untouched, so the middleware can
// sit behind a static file layer: once a bundle has been saved, the static
// layer answers and the bundler is never invoked for that route again.
package resave
