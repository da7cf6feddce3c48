// Package logger provides structured logging for partitionflow using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("partition")
//	log.Info("pipeline started", logger.Fields(logger.FieldPartitions, 4))
package logger
