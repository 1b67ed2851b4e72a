// Package server hosts the Fiber HTTP service, the request middleware chain,
// and the glue that turns config bundles into resave middleware instances.
// The assembly order is deliberate: recovery, request ID, access log and
// metrics wrap everything; the static layer over SavePath answers for
// already-saved bundles; the bundle handlers compile what is still missing;
// a JSON 404 fallback closes the chain. Diagnostics live under /-/ and are
// registered by the routes subpackage, so keep exports narrow and accept
// explicit dependencies.
package server
