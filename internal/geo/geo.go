// Package geo is the geolocation-by-IP collaborator boundary. Hosts without
// a configured database simply run with a nil Provider and events carry no
// location fields.
package geo

// Location is the enrichment attached to an event when a lookup succeeds.
// Empty fields are dropped during sanitization.
type Location struct {
	Country string
	City    string
	Region  string
	Lat     float64
	Lng     float64
}

// Provider resolves an IP address to a location. ok is false when the
// address is unparseable or unknown to the provider.
type Provider interface {
	Lookup(address string) (loc Location, ok bool)
}
