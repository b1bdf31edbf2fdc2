// Package config handles YAML configuration loading with environment variable substitution.
//
// Configuration files support ${VAR} syntax for environment variable interpolation.
// A .env file beside the config file, or in the working directory, is loaded
// first so API keys and passwords can stay out of the YAML.
package config
