// Package logging builds the zap loggers used across csdocs.
package logging
