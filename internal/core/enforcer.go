package core

import "go.uber.org/zap/zapcore"

// levelEnforcer overrides a wrapped core's Enabled check. The otelzap core
// answers Enabled from the logger provider, not from the configured level,
// so without it SetLevel would not apply to the OTEL tee.
type levelEnforcer struct {
	zapcore.Core
	level zapcore.LevelEnabler
}

func (l *levelEnforcer) Enabled(lvl zapcore.Level) bool {
	return l.level.Enabled(lvl)
}

func (l *levelEnforcer) With(fields []zapcore.Field) zapcore.Core {
	return &levelEnforcer{
		Core:  l.Core.With(fields),
		level: l.level,
	}
}

func (l *levelEnforcer) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if l.Enabled(ent.Level) {
		return ce.AddCore(ent, l)
	}
	return ce
}
