// Package httputil provides retry helpers for outbound HTTP calls.
//
// Only errors wrapped with [RetryableError] (transport failures, 5xx
// responses) are retried; everything else is returned on the first attempt.
//
// The repository listing runs with a single attempt by default, so a failed
// fetch degrades to an empty list immediately:
//
//	err := httputil.Retry(ctx, httputil.Policy{Attempts: 1}, fetch)
//
// Raise Attempts (config key github.retries) to opt into backoff.
package httputil
