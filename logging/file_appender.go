package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileAppender writes log entries to a size-rotated file. It is a zapcore.Core, so it can be
// attached to any Logger with AddCore.
type FileAppender struct {
	zapcore.Core
	writer *lumberjack.Logger
}

// NewFileAppender creates a FileAppender writing Debug+ entries to filename in UTC. The file is
// rotated after maxSizeMB megabytes, keeping maxBackups compressed old files.
func NewFileAppender(filename string, maxSizeMB, maxBackups int) *FileAppender {
	writer := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		Compress:   true,
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(fileEncoderConfig()),
		zapcore.AddSync(writer),
		zap.NewAtomicLevelAt(zapcore.DebugLevel),
	)
	return &FileAppender{Core: core, writer: writer}
}

func fileEncoderConfig() zapcore.EncoderConfig {
	cfg := NewEncoderConfig(true)
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}

// Close closes the underlying file.
func (fa *FileAppender) Close() error {
	return fa.writer.Close()
}
