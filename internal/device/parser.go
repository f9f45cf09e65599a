// Package device derives OS and device details from raw User-Agent strings.
package device

import (
	"sync"

	"github.com/ua-parser/uap-go/uaparser"

	"github.com/amptrack/amptrack/internal/metrics"
)

// Details is the parsed form of a User-Agent string. Zero-valued fields are
// dropped during event sanitization.
type Details struct {
	OSName       string
	OSVersion    string
	Platform     string
	Manufacturer string
	Model        string
}

// Parser turns a raw User-Agent string into Details.
type Parser interface {
	Parse(raw string) Details
}

// UAParser parses with the uap-core regex definitions and memoizes results
// in a process-wide cache. Parsing is expensive relative to a map hit and
// user agents repeat heavily, so entries are never evicted; unbounded growth
// is an accepted tradeoff. The cache tolerates concurrent use: a race may
// parse the same string twice but never loses an entry.
type UAParser struct {
	parser *uaparser.Parser

	mu    sync.RWMutex
	known map[string]Details
}

var _ Parser = (*UAParser)(nil)

// NewUAParser creates a UAParser with the compiled-in uap-core definitions.
func NewUAParser() *UAParser {
	return &UAParser{
		parser: uaparser.NewFromSaved(),
		known:  make(map[string]Details),
	}
}

// Parse implements Parser. An empty input yields zero Details without
// touching the cache.
func (p *UAParser) Parse(raw string) Details {
	if raw == "" {
		return Details{}
	}

	p.mu.RLock()
	d, ok := p.known[raw]
	p.mu.RUnlock()
	if ok {
		metrics.UACacheHits.Inc()
		return d
	}
	metrics.UACacheMisses.Inc()

	client := p.parser.Parse(raw)
	d = Details{
		OSName:       client.Os.Family,
		OSVersion:    client.Os.ToVersionString(),
		Platform:     client.Device.Family,
		Manufacturer: client.Device.Brand,
		Model:        client.Device.Model,
	}

	p.mu.Lock()
	p.known[raw] = d
	p.mu.Unlock()
	return d
}
