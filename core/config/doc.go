// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package loads .env files on first use (see DotEnvFiles) and uses the
// caarlos0/env library for parsing environment variables into struct fields.
//
// Basic usage:
//
//	import "github.com/crowdpredictor/trafficmap/core/config"
//
//	type BackendConfig struct {
//		BaseURL string `env:"BACKEND_URL" envDefault:"http://localhost:5050"`
//	}
//
//	func main() {
//		var cfg BackendConfig
//
//		// Load with error handling
//		if err := config.Load(&cfg); err != nil {
//			log.Fatal(err)
//		}
//
//		// Or panic on failure (useful for startup)
//		config.MustLoad(&cfg)
//	}
//
// # Caching Behavior
//
// Each configuration type is loaded only once per application lifetime:
//
//	var cfg1 BackendConfig
//	config.Load(&cfg1) // Loads from environment
//
//	var cfg2 BackendConfig
//	config.Load(&cfg2) // Returns cached value, cfg1 == cfg2
//
// Nested structs are parsed together with their parent, so an application
// config that embeds the per-package configs is loaded in one call.
package config
