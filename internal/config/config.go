package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	SessionSecret       string
	DatabaseURL         string
	RedisURL            string
	StorageURL          string // storage API base URL for item image uploads
	StorageSecretKey    string // service key for the storage API
	AllowedOrigins      []string
	AllowCrossSiteDev   bool
	HealthAdminKey      string
	BrevoAPIKey         string // transactional email (trade notifications)
	MailFrom            string
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	dbURL := viper.GetString("DATABASE_URL")
	if env == "test" && viper.GetString("DATABASE_URL_TEST") != "" {
		dbURL = viper.GetString("DATABASE_URL_TEST")
	}

	return &Config{
		Env:                 env,
		Port:                port,
		SessionSecret:       viper.GetString("SESSION_SECRET"),
		DatabaseURL:         dbURL,
		RedisURL:            viper.GetString("REDIS_URL"),
		StorageURL:          viper.GetString("STORAGE_URL"),
		StorageSecretKey:    viper.GetString("STORAGE_SECRET_KEY"),
		AllowedOrigins:      splitOrigins(viper.GetString("ALLOWED_ORIGINS")),
		AllowCrossSiteDev:   strings.EqualFold(viper.GetString("ALLOW_CROSS_SITE_DEV"), "true"),
		HealthAdminKey:      viper.GetString("HEALTH_ADMIN_KEY"),
		BrevoAPIKey:         viper.GetString("BREVO_API_KEY"),
		MailFrom:            mailFrom(viper.GetString("MAIL_FROM")),
	}, nil
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func mailFrom(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "noreply@barterzone.app"
	}
	return s
}
