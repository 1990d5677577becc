// Package resolver discovers the externally reachable base endpoint of a
// deployed service from its deployment stack outputs. It tries a primary
// output key and a case-variant fallback key to absorb naming drift in
// provisioning metadata.
package resolver
