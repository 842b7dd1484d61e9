package config

import "time"

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" envDefault:"5s"`
	ReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT"        envDefault:"15s"`
	// WriteTimeout must cover a full CSV export render.
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"    envDefault:"60s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT"     envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.Addr == "" {
		h.Addr = ":8080"
	}
	clamp := func(d *time.Duration, def time.Duration) {
		if *d <= 0 {
			*d = def
		}
	}
	clamp(&h.ReadHeaderTimeout, 5*time.Second)
	clamp(&h.ReadTimeout, 15*time.Second)
	clamp(&h.WriteTimeout, 60*time.Second)
	clamp(&h.IdleTimeout, 120*time.Second)
	clamp(&h.ShutdownTimeout, 10*time.Second)
}
