// Package httpclient builds the retrying HTTP client shared by the REST
// based repositories.
package httpclient

import (
	"time"

	"github.com/hashicorp/go-retryablehttp"
	logger "github.com/sirupsen/logrus"
)

const (
	defaultTimeout  = 30 * time.Second
	defaultRetryMax = 3
	retryWaitMin    = 500 * time.Millisecond
	retryWaitMax    = 5 * time.Second
)

// New returns a client that retries connection errors and 5xx/429
// responses with exponential backoff, logging through logrus.
func New() *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = defaultRetryMax
	client.RetryWaitMin = retryWaitMin
	client.RetryWaitMax = retryWaitMax
	client.HTTPClient.Timeout = defaultTimeout
	client.Logger = leveledLogger{}
	return client
}

// leveledLogger adapts logrus to retryablehttp.LeveledLogger. Request
// chatter goes to debug; retries and errors stay visible.
type leveledLogger struct{}

var _ retryablehttp.LeveledLogger = leveledLogger{}

func (leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	logger.WithFields(fields(keysAndValues)).Error(msg)
}

func (leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.WithFields(fields(keysAndValues)).Debug(msg)
}

func (leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	logger.WithFields(fields(keysAndValues)).Debug(msg)
}

func (leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	logger.WithFields(fields(keysAndValues)).Warn(msg)
}

func fields(keysAndValues []interface{}) logger.Fields {
	out := make(logger.Fields, len(keysAndValues)/2) //nolint:mnd // key/value pairs
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		out[key] = keysAndValues[i+1]
	}
	return out
}
