// Package logger provides structured logging for the hashtag scrape tool.
//
// It wraps the zerolog library behind a small interface with support for:
// - Multiple log levels (Debug, Info, Warn, Error, Fatal)
// - Structured logging with fields
// - Pretty console output with colors on stderr
// - Optional append-only file output
// - Global logger instance for easy access
//
// Basic Usage:
//
//	import "ttscraper/pkg/logger"
//
//	cfg := &config.LoggingConfig{Level: "info"}
//	err := logger.Initialize(cfg)
//
//	logger.Info("run started")
//	logger.WithField("hashtag", "cats").Info("resolved tag")
//	logger.WithError(err).Error("run submission failed")
//
// Console output goes to stderr so that stdout stays reserved for the
// command's own result lines.
package logger
