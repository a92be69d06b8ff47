// Package fetch retrieves rendered page HTML through an external
// scraping proxy. It implements a bounded two-tier fallback ladder:
// one enhanced attempt (JS rendering, geo and device hints) followed,
// on failure, by one basic attempt with a minimal parameter set.
package fetch
