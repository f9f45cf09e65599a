package geo

import (
	"net"

	"github.com/oschwald/maxminddb-golang"
)

// OpenMaxmindDB opens a MaxMind city database at the given path.
func OpenMaxmindDB(filepath string) (*MaxmindDB, error) {
	db, err := maxminddb.Open(filepath)
	if err != nil {
		return nil, err
	}
	return &MaxmindDB{db: db}, nil
}

// MaxmindDB provides location data via a MaxMind GeoIP2/GeoLite2 city
// database.
type MaxmindDB struct {
	db *maxminddb.Reader
}

var _ Provider = (*MaxmindDB)(nil)

type cityRecord struct {
	Country struct {
		Names map[string]string `maxminddb:"names"`
	} `maxminddb:"country"`
	City struct {
		Names map[string]string `maxminddb:"names"`
	} `maxminddb:"city"`
	Subdivisions []struct {
		IsoCode string `maxminddb:"iso_code"`
	} `maxminddb:"subdivisions"`
	Location struct {
		Latitude  float64 `maxminddb:"latitude"`
		Longitude float64 `maxminddb:"longitude"`
	} `maxminddb:"location"`
}

// Close disconnects the underlying database.
func (m *MaxmindDB) Close() error {
	return m.db.Close()
}

// Lookup implements Provider.
func (m *MaxmindDB) Lookup(address string) (Location, bool) {
	ip := net.ParseIP(address)
	if ip == nil {
		return Location{}, false
	}

	var record cityRecord
	if err := m.db.Lookup(ip, &record); err != nil {
		return Location{}, false
	}

	loc := Location{
		Country: record.Country.Names["en"],
		City:    record.City.Names["en"],
		Lat:     record.Location.Latitude,
		Lng:     record.Location.Longitude,
	}
	if len(record.Subdivisions) > 0 {
		loc.Region = record.Subdivisions[0].IsoCode
	}
	if loc == (Location{}) {
		return Location{}, false
	}
	return loc, true
}
