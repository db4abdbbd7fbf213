package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL"`

	Stripe Stripe `envPrefix:"STRIPE_"`
}

type Stripe struct {
	// SecretKey authenticates every API call. It is supplied via the
	// environment only and must never appear in source or logs.
	SecretKey string `env:"SECRET_KEY"`
	// PublishableKey is handed to the browser-side checkout widget.
	PublishableKey string `env:"PUBLISHABLE_KEY"`
	// APIBase overrides the Stripe API base URL, for pointing the client
	// at a mock server. Empty means the live API.
	APIBase string `env:"API_BASE"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
