package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer

	Backend Backend `envPrefix:"BACKEND_"`
	Storage Storage `envPrefix:"STORAGE_"`
	Guard   Guard   `envPrefix:"GUARD_"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"127.0.0.1"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}

// Backend locates the storefront REST API this gateway fronts.
type Backend struct {
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:3000"`
}

// Storage is the local sqlite file holding credential, profile and cart.
type Storage struct {
	Path string `env:"PATH" envDefault:"storefront.db"`
}

// Guard bounds how long a protected route waits for the profile fetch.
type Guard struct {
	ProfileWaitMS int `env:"PROFILE_WAIT_MS" envDefault:"1500"`
}
