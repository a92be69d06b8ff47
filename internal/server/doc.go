// Package server exposes the extraction pipeline over HTTP. One
// endpoint accepts a URL and a format, runs the pipeline, and returns
// the serialized report wrapped in a response envelope with boundary
// metadata. Pipeline errors map onto HTTP statuses by their taxonomy.
package server
