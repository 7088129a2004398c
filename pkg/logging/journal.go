package logging

import (
	"github.com/coreos/go-systemd/v22/journal"
	"go.uber.org/zap/zapcore"
	"strings"
)

type sendFunc func(message string, priority journal.Priority, vars map[string]string) error

type journalCore struct {
	zapcore.LevelEnabler
	enc  zapcore.Encoder
	send sendFunc
}

func newJournalCore(level zapcore.LevelEnabler, send sendFunc) *journalCore {
	// journald records time, level and caller itself
	enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey:       "msg",
		NameKey:          "logger",
		ConsoleSeparator: " ",
	})

	return &journalCore{
		LevelEnabler: level,
		enc:          enc,
		send:         send,
	}
}

func (c *journalCore) With(fields []zapcore.Field) zapcore.Core {
	clone := &journalCore{
		LevelEnabler: c.LevelEnabler,
		enc:          c.enc.Clone(),
		send:         c.send,
	}
	for _, f := range fields {
		f.AddTo(clone.enc)
	}
	return clone
}

func (c *journalCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *journalCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	buf, err := c.enc.EncodeEntry(ent, fields)
	if err != nil {
		return err
	}
	defer buf.Free()

	return c.send(strings.TrimSpace(buf.String()), priority(ent.Level), map[string]string{
		"SYSLOG_IDENTIFIER": identifier,
	})
}

func (c *journalCore) Sync() error {
	return nil
}

func priority(level zapcore.Level) journal.Priority {
	switch level {
	case zapcore.DebugLevel:
		return journal.PriDebug
	case zapcore.InfoLevel:
		return journal.PriInfo
	case zapcore.WarnLevel:
		return journal.PriWarning
	case zapcore.ErrorLevel:
		return journal.PriErr
	case zapcore.DPanicLevel, zapcore.PanicLevel:
		return journal.PriCrit
	default:
		return journal.PriAlert
	}
}
