package config

type App struct {
	Port               string `env:"APP_PORT" default:"8080"`
	DatabaseURL        string `env:"DATABASE_URL,required"`
	JWTSecret          string `env:"JWT_SECRET,required"`
	PropertyServiceURL string `env:"PROPERTY_SERVICE_URL" default:"http://localhost:8082"`
	MigrationsDir      string `env:"MIGRATIONS_DIR" default:"migrations"`
	RequestTTLHours    int    `env:"REQUEST_TTL_HOURS" default:"168"`
	CleanupSchedule    string `env:"CLEANUP_SCHEDULE" default:"@hourly"`
	Env                string `env:"APP_ENV" default:"dev"`
}
