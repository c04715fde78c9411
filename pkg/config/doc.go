// Package config loads typed configuration structs from environment variables.
//
// A `.env` file in the working directory is read once through
// github.com/joho/godotenv, then each struct is parsed with
// github.com/caarlos0/env/v11 tags. Every config type is parsed at most once
// per process and the result (value or error) is cached.
//
//	type Config struct {
//		BaseURL string `env:"BETTER_AUTH_URL,required"`
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg)
//
// Tests that mutate the environment between loads call Reset.
package config
