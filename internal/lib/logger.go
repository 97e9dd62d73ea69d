package lib

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const timeLayout = "2006-01-02T15:04:05"

// NewLogger builds the process logger. Logs go to stderr so command output
// on stdout stays clean.
func NewLogger(level string, color, isJSON bool) (*zap.SugaredLogger, error) {
	return newLogger(level, color, isJSON, os.Stderr)
}

// NewLoggerTo builds a logger writing to w.
func NewLoggerTo(level string, isJSON bool, w io.Writer) (*zap.SugaredLogger, error) {
	return newLogger(level, false, isJSON, w)
}

// NewTestLogger logs everything at debug level to stderr.
func NewTestLogger() *zap.SugaredLogger {
	log, _ := newLogger("debug", false, false, os.Stderr)
	return log
}

func newLogger(levelStr string, color, isJSON bool, w io.Writer) (*zap.SugaredLogger, error) {
	level, err := zapcore.ParseLevel(levelStr)
	if err != nil {
		return nil, err
	}

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeTime = zapcore.TimeEncoderOfLayout(timeLayout)
	if color && !isJSON {
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	var encoder zapcore.Encoder
	if isJSON {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), level)
	return zap.New(core, zap.AddStacktrace(zap.ErrorLevel)).Sugar(), nil
}
