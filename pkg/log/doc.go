// Package log provides structured logging for qnetsim using zerolog.
package log
