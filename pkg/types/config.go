package types

// Config represents the paramedit configuration.
type Config struct {
	// Schema reference (for editor support)
	Schema string `json:"$schema,omitempty" yaml:"-"`

	// Document is the name of the design document to operate on.
	Document string `json:"document,omitempty" yaml:"document,omitempty"`

	// LogLevel sets the minimum log level (DEBUG|INFO|WARN|ERROR).
	LogLevel string `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`

	// Navigation controls cursor movement in a session.
	Navigation *NavigationConfig `json:"navigation,omitempty" yaml:"navigation,omitempty"`

	// Keys maps editor actions to key chords. The bindings are passed through
	// to the UI front end untouched; the server only stores them.
	Keys map[string]string `json:"keys,omitempty" yaml:"keys,omitempty"`

	// Server configures the HTTP surface.
	Server *ServerConfig `json:"server,omitempty" yaml:"server,omitempty"`

	// Host configures which host implementation backs the session.
	Host *HostConfig `json:"host,omitempty" yaml:"host,omitempty"`
}

// NavigationConfig controls session cursor behavior.
type NavigationConfig struct {
	// Wrap makes Navigate wrap around at either end instead of stopping.
	Wrap bool `json:"wrap" yaml:"wrap"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port       int  `json:"port,omitempty" yaml:"port,omitempty"`
	EnableCORS bool `json:"enableCors,omitempty" yaml:"enableCors,omitempty"`
}

// HostConfig selects and configures the parameter host.
type HostConfig struct {
	// Kind is "memory" (bundled in-process host) or "remote" (HTTP bridge).
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`
	// URL is the bridge base URL for the remote host.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Document:   "default",
		LogLevel:   "INFO",
		Navigation: &NavigationConfig{Wrap: true},
		Server:     &ServerConfig{Port: 8235, EnableCORS: true},
		Host:       &HostConfig{Kind: "memory"},
	}
}
