// Package logger owns the process-wide zap.SugaredLogger and a few helpers
// for keeping personal data out of log lines.
package logger

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger *zap.SugaredLogger
	once   sync.Once
)

// IsTest switches the logger to a stdout development encoder. Test mains set
// it before anything calls GetLogger.
var IsTest bool

func build() {
	level := zapcore.InfoLevel
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		if err := level.UnmarshalText([]byte(raw)); err != nil {
			level = zapcore.InfoLevel
		}
	}

	var cfg zap.Config
	switch {
	case IsTest:
		cfg = zap.NewDevelopmentConfig()
		cfg.OutputPaths = []string{"stdout"}
	case os.Getenv("SERVER_ENVIRONMENT") == "production":
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.OutputPaths = []string{"stdout"}
		cfg.ErrorOutputPaths = []string{"stderr"}
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	zl, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	logger = zl.Sugar()
}

// InitLogger builds the global logger. Safe to call more than once.
func InitLogger() {
	once.Do(build)
}

// GetLogger returns the global logger, building it on first use.
func GetLogger() *zap.SugaredLogger {
	once.Do(build)
	return logger
}

// Close flushes buffered entries. Call it on the way out of main.
func Close() error {
	if logger == nil || IsTest {
		return nil
	}
	if err := logger.Sync(); err != nil {
		fmt.Fprintf(os.Stderr, "Error syncing logger: %v\n", err)
		return err
	}
	return nil
}

// MaskSensitiveString keeps the first prefixLen and last suffixLen characters
// of s. Strings too short to mask meaningfully are starred out entirely.
func MaskSensitiveString(s string, prefixLen, suffixLen int) string {
	if s == "" {
		return ""
	}
	if len(s) < prefixLen+suffixLen+3 {
		return strings.Repeat("*", len(s))
	}
	return s[:prefixLen] + "..." + s[len(s)-suffixLen:]
}

// MaskEmail hides the local part of an address but keeps the domain readable.
func MaskEmail(email string) string {
	if email == "" {
		return ""
	}
	local, domain, ok := strings.Cut(email, "@")
	if !ok || strings.Contains(domain, "@") {
		return MaskSensitiveString(email, 2, 2)
	}
	return MaskSensitiveString(local, 2, 1) + "@" + domain
}

// MaskConnectionString replaces the password of a postgres URL or key/value
// DSN with "***". Best effort only.
func MaskConnectionString(connStr string) string {
	if connStr == "" {
		return ""
	}
	masked := connStr

	if idx := strings.Index(masked, "://"); idx != -1 {
		rest := masked[idx+3:]
		if at := strings.Index(rest, "@"); at != -1 {
			userInfo := rest[:at]
			if user, _, hasPass := strings.Cut(userInfo, ":"); hasPass {
				masked = masked[:idx+3] + user + ":***" + rest[at:]
			}
		}
	}

	const key = "password="
	if kv := strings.Index(masked, key); kv != -1 {
		start := kv + len(key)
		end := strings.Index(masked[start:], " ")
		if end == -1 {
			masked = masked[:start] + "***"
		} else {
			masked = masked[:start] + "***" + masked[start+end:]
		}
	}
	return masked
}
