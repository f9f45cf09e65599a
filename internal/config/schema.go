package config

// Config is the top-level YAML structure. Everything except the ignore list
// is fixed for the process lifetime once validated.
type Config struct {
	// APIKey authenticates against the ingestion endpoint. Required; the
	// AMPTRACK_API_KEY environment variable overrides the file value.
	APIKey string `yaml:"api_key"`

	// IncludeUserData adds user_properties to events for authenticated
	// requests.
	IncludeUserData bool `yaml:"include_user_data"`

	// IncludeGroupData adds the user's group names to events for
	// authenticated requests.
	IncludeGroupData bool `yaml:"include_group_data"`

	// Ignore lists route paths or route names for which no event is
	// generated. This is the only hot-reloadable field.
	Ignore []string `yaml:"ignore"`

	// GeoIPDB is an optional path to a MaxMind city database. Events carry
	// no location fields when unset.
	GeoIPDB string `yaml:"geoip_db"`

	Server  ServerConf  `yaml:"server"`
	Session SessionConf `yaml:"session"`
	Log     LogConf     `yaml:"log"`
}

// ServerConf holds the demo host server settings.
type ServerConf struct {
	Addr string `yaml:"addr"`
}

// SessionConf configures the cookie session backing the identity pair.
type SessionConf struct {
	// Secret signs the session cookie. Required.
	Secret string `yaml:"secret"`
	// Cookie is the session cookie name.
	Cookie string `yaml:"cookie"`
	// MaxAge is the session lifetime in seconds.
	MaxAge int `yaml:"max_age"`
}

// LogConf controls logger initialization.
type LogConf struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}
