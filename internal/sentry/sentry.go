// Package sentry reports crashes and unexpected errors when SENTRY_DSN is
// set. Without it every function is a no-op.
package sentry

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
)

// Initialize sets up Sentry if DSN is provided
func Initialize(version string) error {
	dsn := os.Getenv("SENTRY_DSN")
	if dsn == "" {
		return nil
	}

	environment := os.Getenv("SENTRY_ENVIRONMENT")
	if environment == "" {
		environment = "production"
	}

	sampleRate := 1.0
	if rate := os.Getenv("SENTRY_TRACES_SAMPLE_RATE"); rate != "" {
		if v, err := strconv.ParseFloat(rate, 64); err == nil {
			sampleRate = v
		}
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		Release:          version,
		TracesSampleRate: sampleRate,
		Debug:            os.Getenv("SENTRY_DEBUG") == "true",
		AttachStacktrace: true,
		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			if event.Extra == nil {
				event.Extra = map[string]interface{}{}
			}
			event.Extra["clockify_base_url"] = os.Getenv("CLOCKIFY_BASE_URL")
			// Never ship the API key.
			delete(event.Extra, "api_key")
			return event
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize Sentry: %w", err)
	}
	return nil
}

// Enabled reports whether a Sentry client is configured.
func Enabled() bool {
	return sentry.CurrentHub().Client() != nil
}

// Flush waits for all events to be sent
func Flush(timeout time.Duration) {
	if Enabled() {
		sentry.Flush(timeout)
	}
}

// CaptureError captures an error with additional context
func CaptureError(err error, tags map[string]string) {
	if !Enabled() || err == nil {
		return
	}

	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureException(err)
	})
}

// AddBreadcrumb adds a breadcrumb for debugging
func AddBreadcrumb(category, message string, data map[string]interface{}) {
	if !Enabled() {
		return
	}
	sentry.AddBreadcrumb(&sentry.Breadcrumb{
		Category:  category,
		Message:   message,
		Level:     sentry.LevelInfo,
		Data:      data,
		Timestamp: time.Now(),
	})
}

// RecoverWithSentry reports a panic and re-panics. Use it deferred.
func RecoverWithSentry() {
	if err := recover(); err != nil {
		if Enabled() {
			sentry.CurrentHub().Recover(err)
			sentry.Flush(2 * time.Second)
		}
		panic(err)
	}
}
