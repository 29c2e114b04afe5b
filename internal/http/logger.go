package http

import (
	"fmt"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/fivetwenty-io/cfapi/pkg/capi"
)

var _ retryablehttp.LeveledLogger = leveledLogger{}

// leveledLogger forwards go-retryablehttp warnings and errors to a
// capi.Logger. Per-attempt debug lines are dropped; request events carry
// the same information.
type leveledLogger struct {
	logger capi.Logger
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, fields(keysAndValues))
}

func (l leveledLogger) Info(string, ...interface{}) {}

func (l leveledLogger) Debug(string, ...interface{}) {}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, fields(keysAndValues))
}

func fields(keysAndValues []interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(keysAndValues)/2)

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}

		out[key] = keysAndValues[i+1]
	}

	return out
}
