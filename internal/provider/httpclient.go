package provider

import (
	"log/slog"
	"time"

	"resty.dev/v3"
)

const (
	defaultRetryCount       = 3
	defaultRetryWaitTime    = 1 * time.Second
	defaultRetryMaxWaitTime = 10 * time.Second
)

// NewHTTPClient creates the resty client shared by HTTP-backed providers,
// with retry on transient failures and exponential backoff.
func NewHTTPClient(baseURL string) *resty.Client {
	return resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "Mozilla/5.0").
		SetRetryCount(defaultRetryCount).
		SetRetryWaitTime(defaultRetryWaitTime).
		SetRetryMaxWaitTime(defaultRetryMaxWaitTime).
		AddRetryConditions(retryCondition).
		AddRetryHooks(retryHook)
}

// retryCondition retries network errors and transient status codes
// (429, 408, 5xx). Other client errors are final.
func retryCondition(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	switch {
	case r.StatusCode() >= 500:
		return true
	case r.StatusCode() == 429, r.StatusCode() == 408:
		return true
	}
	return false
}

func retryHook(r *resty.Response, err error) {
	if err != nil {
		slog.Debug("retrying request due to error",
			"url", r.Request.URL,
			"attempt", r.Request.Attempt,
			"error", err.Error())
		return
	}

	slog.Debug("retrying request due to status code",
		"url", r.Request.URL,
		"attempt", r.Request.Attempt,
		"status_code", r.StatusCode())
}
