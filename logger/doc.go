// Package logger provides structured logging built on zerolog.
//
// It exposes a Logger type with leveled methods that accept optional field
// maps, component tagging for subsystem loggers, and a package-level global
// logger for code that has no logger wired in.
//
// Usage:
//
//	log := logger.New(&logger.Config{Level: "debug", Format: "json"}, "authgate")
//	log.WithComponent("pipeline").Debug("token rejected", map[string]interface{}{
//	    "reason": "expired",
//	})
package logger
