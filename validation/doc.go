// Package validation validates configuration structs using struct tags.
//
// Field names in errors follow the mapstructure tag, so they match the keys
// used in configuration files:
//
//	type Config struct {
//	    Partitions int `mapstructure:"partitions" validate:"min=1"`
//	}
//	err := validation.Validate(cfg) // *errors.AppError with code INVALID_CONFIG
package validation
