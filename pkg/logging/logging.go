package logging

import (
	"fmt"
	"github.com/coreos/go-systemd/v22/journal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const identifier = "kbswitch"

// New builds the development-style logger used by every command. When
// journald is reachable and toJournal is set, entries are also sent there,
// since processes spawned by a compositor keybind have nowhere to print.
func New(debug, toJournal bool) (*zap.SugaredLogger, error) {
	loggerConfig := zap.NewDevelopmentConfig()

	loggerConfig.OutputPaths = []string{"stderr"}
	loggerConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if debug {
		loggerConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		loggerConfig.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	logger, err := loggerConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	if toJournal && journal.Enabled() {
		jc := newJournalCore(loggerConfig.Level, journal.Send)
		logger = logger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewTee(core, jc)
		}))
	}

	return logger.Sugar(), nil
}
