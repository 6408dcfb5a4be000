// Package config loads application configuration with Viper.
//
// Values are read from a YAML file, an optional .env file and environment
// variables prefixed with GOPHER_, in rising precedence:
//
//	var cfg AppConfig
//	err := config.Load("gopher", &cfg, config.WithConfigFile("gopher.yml"))
//
// GOPHER_CLIENT_BASE_URL overrides client.base_url.
package config
