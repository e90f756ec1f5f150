// Copyright 2026 The Seer Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package cmd

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/seer-datalog/seer/logging"
	"github.com/seer-datalog/seer/util"
)

// repeatedStringFlag implements the pflag.Value interface for flags that can
// be repeated on the command line.
type repeatedStringFlag struct {
	v     []string
	isSet bool
}

func (f *repeatedStringFlag) Type() string {
	return "string"
}

func (f *repeatedStringFlag) String() string {
	return strings.Join(f.v, ",")
}

func (f *repeatedStringFlag) Set(s string) error {
	f.v = append(f.v, s)
	f.isSet = true
	return nil
}

func addDataFlag(fs *pflag.FlagSet, paths *repeatedStringFlag) {
	fs.VarP(paths, "data", "d", "set program file(s). This flag can be repeated.")
}

func newFormatFlag() *util.EnumFlag {
	return util.NewEnumFlag(formatPretty, []string{formatPretty, formatJSON})
}

func newLogLevelFlag() *util.EnumFlag {
	return util.NewEnumFlag("error", []string{"debug", "info", "error"})
}

const (
	formatPretty = "pretty"
	formatJSON   = "json"
)

func newLogger(level string) logging.Logger {
	logger := logging.New()
	switch level {
	case "debug":
		logger.SetLevel(logging.Debug)
	case "info":
		logger.SetLevel(logging.Info)
	default:
		logger.SetLevel(logging.Error)
	}
	return logger
}
