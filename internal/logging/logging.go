package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/worksummary/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger bundles the zap logger with the resources it writes to.
type Logger struct {
	*zap.Logger
	file *lumberjack.Logger
}

// New builds the application logger. Console output goes to w (stderr
// when nil) as JSON, or human-readable text in development mode or when
// verbose is set. verbose also lowers the level to debug. When cfg.File
// is set, JSON records are also written to a size-rotated file.
func New(cfg config.LogConfig, verbose bool, w io.Writer) (*Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	if w == nil {
		w = os.Stderr
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var consoleEnc zapcore.Encoder
	if cfg.Development || verbose {
		devCfg := zap.NewDevelopmentEncoderConfig()
		consoleEnc = zapcore.NewConsoleEncoder(devCfg)
	} else {
		consoleEnc = zapcore.NewJSONEncoder(encCfg)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEnc, zapcore.Lock(zapcore.AddSync(w)), level),
	}

	out := &Logger{}
	if cfg.File != "" {
		out.file = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(out.file), level))
	}

	out.Logger = zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	return out, nil
}

// Close flushes buffered entries and closes the rotating file, if any.
func (l *Logger) Close() error {
	_ = l.Logger.Sync()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
