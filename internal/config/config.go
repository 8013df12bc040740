package config

import "os"

// GetEnv returns the environment variable for key, or fallback when unset.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

// App holds everything read from the environment at startup.
type App struct {
	Port          string
	APIBaseURL    string // MagoImports backend, e.g. http://localhost:2020
	SessionDBPath string
	JWTSecret     string
	GeminiAPIKey  string
	AdminEmail    string
	AdminPassword string
}

// Load reads the app configuration. Defaults match the local dev setup.
func Load() App {
	return App{
		Port:          GetEnv("PORT", "8080"),
		APIBaseURL:    GetEnv("MAGO_API_URL", "http://localhost:2020"),
		SessionDBPath: GetEnv("SESSION_DB_PATH", "mago_session.db"),
		JWTSecret:     GetEnv("JWT_SECRET", "mago_dev_secret_change_me"),
		GeminiAPIKey:  GetEnv("GEMINI_API_KEY", ""),
		AdminEmail:    GetEnv("ADMIN_EMAIL", ""),
		AdminPassword: GetEnv("ADMIN_PASSWORD", ""),
	}
}
