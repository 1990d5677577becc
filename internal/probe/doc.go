// Package probe implements the HTTP readiness probe. A probe is a single GET
// whose status code is the only signal; response bodies are not interpreted.
package probe
