package main

import (
	"io"
	"os"

	"github.com/domainlend/loom/errors"
	"github.com/tendermint/tendermint/libs/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger returns a logger writing to the configured log file or to
// stderr. The returned closer must be called once the logger is no longer
// used.
func NewLogger(conf *Config) (log.Logger, io.Closer, error) {
	if conf.LogLevel == "none" {
		return log.NewNopLogger(), nopCloser{}, nil
	}
	var (
		w      io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
	)
	if conf.LogFile != "" {
		rotate := &lumberjack.Logger{
			Filename:   conf.LogFile,
			MaxSize:    64, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		}
		w, closer = rotate, rotate
	}
	level, err := log.AllowLevel(conf.LogLevel)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	logger := log.NewFilter(log.NewTMLogger(log.NewSyncWriter(w)), level).
		With("module", "escrowd")
	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
