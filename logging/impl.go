package logging

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logging interface accepted by the solver, the batch evaluator and config loading.
// The printf-style and structured methods come from the underlying zap.SugaredLogger.
type Logger interface {
	Debug(args ...interface{})
	Debugf(template string, args ...interface{})
	Debugw(msg string, keysAndValues ...interface{})
	Info(args ...interface{})
	Infof(template string, args ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warn(args ...interface{})
	Warnf(template string, args ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Error(args ...interface{})
	Errorf(template string, args ...interface{})
	Errorw(msg string, keysAndValues ...interface{})

	// Sublogger returns a logger named "<parent>.<subname>" writing to the same outputs.
	Sublogger(subname string) Logger
	SetLevel(level zapcore.Level)
	GetLevel() zapcore.Level
	AddCore(core zapcore.Core)
	AsZap() *zap.SugaredLogger
	Sync() error
}

type impl struct {
	*zap.SugaredLogger

	name  string
	level zap.AtomicLevel
	cores []zapcore.Core
}

func newImpl(name string, level zap.AtomicLevel, cores ...zapcore.Core) *impl {
	imp := &impl{name: name, level: level, cores: cores}
	imp.rebuild()
	return imp
}

// rebuild recreates the sugared logger after the set of cores changed.
func (imp *impl) rebuild() {
	core := zapcore.NewNopCore()
	if len(imp.cores) > 0 {
		core = zapcore.NewTee(imp.cores...)
	}
	imp.SugaredLogger = zap.New(
		&leveledCore{Core: core, level: imp.level},
		zap.AddCaller(),
	).Sugar().Named(imp.name)
}

func (imp *impl) AddCore(core zapcore.Core) {
	imp.cores = append(imp.cores, core)
	imp.rebuild()
}

func (imp *impl) SetLevel(level zapcore.Level) {
	imp.level.SetLevel(level)
}

func (imp *impl) GetLevel() zapcore.Level {
	return imp.level.Level()
}

func (imp *impl) Sublogger(subname string) Logger {
	newName := subname
	if imp.name != "" {
		newName = fmt.Sprintf("%s.%s", imp.name, subname)
	}
	cores := make([]zapcore.Core, len(imp.cores))
	copy(cores, imp.cores)
	return newImpl(newName, zap.NewAtomicLevelAt(imp.level.Level()), cores...)
}

func (imp *impl) AsZap() *zap.SugaredLogger {
	return imp.SugaredLogger
}

func (imp *impl) Sync() error {
	var errs []error
	for _, core := range imp.cores {
		if err := core.Sync(); err != nil {
			errs = append(errs, err)
		}
	}
	return multierr.Combine(errs...)
}

// leveledCore gates every output core behind the logger's own level so Sublogger levels
// can diverge from the parent's.
type leveledCore struct {
	zapcore.Core
	level zap.AtomicLevel
}

func (c *leveledCore) Enabled(lvl zapcore.Level) bool {
	return c.level.Enabled(lvl) && c.Core.Enabled(lvl)
}

func (c *leveledCore) With(fields []zapcore.Field) zapcore.Core {
	return &leveledCore{Core: c.Core.With(fields), level: c.level}
}

func (c *leveledCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.level.Enabled(entry.Level) {
		return ce
	}
	return c.Core.Check(entry, ce)
}
