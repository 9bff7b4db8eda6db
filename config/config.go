package config

import "os"

type Config struct {
	Addr      string
	MongoURI  string
	DBName    string
	JWTSecret string
}

// Load reads configuration from the environment. JWTSecret has no default;
// main refuses to start without it.
func Load() *Config {
	cfg := &Config{
		Addr:      os.Getenv("ADDR"),
		MongoURI:  os.Getenv("MONGO_URI"),
		DBName:    os.Getenv("DB_NAME"),
		JWTSecret: os.Getenv("JWT_SECRET"),
	}

	if cfg.Addr == "" {
		cfg.Addr = ":3002"
	}
	if cfg.MongoURI == "" {
		cfg.MongoURI = "mongodb://localhost:27017/"
	}
	if cfg.DBName == "" {
		cfg.DBName = "achievifyDB"
	}

	return cfg
}
