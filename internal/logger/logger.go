package logger

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/fxnlabs/againkit/internal/paths"
)

// New builds a production JSON logger at the given level, without touching
// the process-wide logger.
func New(verbosity string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	level, err := zap.ParseAtomicLevel(verbosity)
	if err != nil {
		return nil, err
	}
	config.Level = level
	return config.Build()
}

// Options configures Setup.
type Options struct {
	Verbosity string
	// File receives JSON logs in addition to the console. Parent
	// directories are created.
	File string
	// MaxSizeMB is the size at which File is rotated. Defaults to 500.
	MaxSizeMB int
	// MaxAgeDays is how long rotated files are kept. Defaults to 10.
	MaxAgeDays int
	// NoCompress keeps rotated files uncompressed.
	NoCompress bool
	// RedirectStdLog sends output of the standard library log package to zap.
	RedirectStdLog bool
	// Console defaults to os.Stdout.
	Console io.Writer
}

const (
	defaultMaxSizeMB  = 500
	defaultMaxAgeDays = 10
)

var (
	setupMu    sync.Mutex
	configured *zap.Logger
	restore    []func()
)

// Setup builds the process logger once. Later calls return the same logger
// and ignore opts until Reset is called.
func Setup(opts Options) (*zap.Logger, error) {
	setupMu.Lock()
	defer setupMu.Unlock()

	if configured != nil {
		return configured, nil
	}

	level, err := zap.ParseAtomicLevel(opts.Verbosity)
	if err != nil {
		return nil, err
	}

	console := opts.Console
	if console == nil {
		console = os.Stdout
	}
	consoleConfig := zap.NewDevelopmentEncoderConfig()
	consoleConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	consoleConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleConfig), zapcore.Lock(zapcore.AddSync(console)), level),
	}

	var logFile *lumberjack.Logger
	if opts.File != "" {
		logPath, err := paths.NormalizeFilePath(opts.File)
		if err != nil {
			return nil, err
		}
		logFile = &lumberjack.Logger{
			Filename: logPath,
			MaxSize:  opts.MaxSizeMB,
			MaxAge:   opts.MaxAgeDays,
			Compress: !opts.NoCompress,
		}
		if logFile.MaxSize <= 0 {
			logFile.MaxSize = defaultMaxSizeMB
		}
		if logFile.MaxAge <= 0 {
			logFile.MaxAge = defaultMaxAgeDays
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.Lock(zapcore.AddSync(logFile)),
			level,
		))
	}

	log := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	restore = append(restore, zap.ReplaceGlobals(log))
	if opts.RedirectStdLog {
		restore = append(restore, zap.RedirectStdLog(log.Named("stdlog")))
	}
	if logFile != nil {
		restore = append(restore, func() { _ = logFile.Close() })
		log.Info("Logging configured",
			zap.String("file", logFile.Filename),
			zap.Int("maxSizeMB", logFile.MaxSize),
			zap.Int("maxAgeDays", logFile.MaxAge))
	}

	configured = log
	return log, nil
}

// Reset undoes Setup so the next call configures logging again.
func Reset() {
	setupMu.Lock()
	defer setupMu.Unlock()

	if configured != nil {
		_ = configured.Sync()
	}
	for i := len(restore) - 1; i >= 0; i-- {
		restore[i]()
	}
	restore = nil
	configured = nil
}
