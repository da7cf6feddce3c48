// Package config loads configuration for partitionflow pipelines.
//
// It uses Viper to read a YAML, JSON or TOML file and environment
// variables, optionally seeded from a .env file via godotenv.
//
// # Usage
//
//	var cfg struct {
//	    Partition partition.Config `mapstructure:"partition"`
//	}
//	err := config.Load(&cfg, config.WithConfigFile("pipeline.yml"))
//
// Environment variables override file values using the configured prefix and
// underscore-separated paths (PARTITIONFLOW_PARTITION_PARTITIONS=8).
package config
