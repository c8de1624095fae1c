package temporal

import (
	"go.temporal.io/sdk/log"
	"go.uber.org/zap"
)

// ZapLoggerAdapter adapts zap.Logger to Temporal's log.Logger interface
type ZapLoggerAdapter struct {
	logger *zap.Logger
}

// NewZapLoggerAdapter creates a new zap logger adapter for Temporal clients and workers
func NewZapLoggerAdapter(logger *zap.Logger) log.Logger {
	return &ZapLoggerAdapter{logger: logger.WithOptions(zap.AddCallerSkip(1))}
}

func (z *ZapLoggerAdapter) Debug(msg string, keyvals ...interface{}) {
	z.logger.Debug(msg, keyvalsToFields(keyvals)...)
}

func (z *ZapLoggerAdapter) Info(msg string, keyvals ...interface{}) {
	z.logger.Info(msg, keyvalsToFields(keyvals)...)
}

func (z *ZapLoggerAdapter) Warn(msg string, keyvals ...interface{}) {
	z.logger.Warn(msg, keyvalsToFields(keyvals)...)
}

func (z *ZapLoggerAdapter) Error(msg string, keyvals ...interface{}) {
	z.logger.Error(msg, keyvalsToFields(keyvals)...)
}

// With returns a logger carrying the given key-value pairs, see log.WithLogger
func (z *ZapLoggerAdapter) With(keyvals ...interface{}) log.Logger {
	return &ZapLoggerAdapter{logger: z.logger.With(keyvalsToFields(keyvals)...)}
}

// keyvalsToFields converts Temporal's alternating key, value list to zap fields.
// A trailing key without value and non string keys are dropped.
func keyvalsToFields(keyvals []interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(keyvals)/2)
	for i := 0; i+1 < len(keyvals); i += 2 {
		key, ok := keyvals[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, keyvals[i+1]))
	}
	return fields
}
