package logger

import (
	"os"

	"github.com/natefinch/lumberjack"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"forumhub/internal/app"
)

// Init builds the process logger from cfg and installs it as zap's global
// logger. Output goes to stdout and, when Filename is set, to a rotated file.
func Init(cfg app.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, errors.Wrapf(err, "logging.level %q", cfg.Level)
	}

	var encoder zapcore.Encoder
	if cfg.Development {
		ec := zap.NewDevelopmentEncoderConfig()
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(ec)
	} else {
		ec := zap.NewProductionEncoderConfig()
		ec.TimeKey = "time"
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
		ec.EncodeDuration = zapcore.MillisDurationEncoder
		encoder = zapcore.NewJSONEncoder(ec)
	}

	l := zap.New(zapcore.NewCore(encoder, writer(cfg), level), zap.AddCaller())
	zap.ReplaceGlobals(l)
	return l, nil
}

func writer(cfg app.LoggingConfig) zapcore.WriteSyncer {
	out := make([]zapcore.WriteSyncer, 0, 2)
	if cfg.Filename != "" {
		out = append(out, zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}))
	}
	if cfg.Console || len(out) == 0 {
		out = append(out, zapcore.Lock(os.Stdout))
	}
	return zapcore.NewMultiWriteSyncer(out...)
}

// Sync flushes the global logger. Errors from syncing stdout are ignored.
func Sync() {
	_ = zap.L().Sync()
}
