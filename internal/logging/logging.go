// Package logging builds the process logger. Components receive a
// *zap.Logger through their constructors; tests pass zap.NewNop().
package logging

import "go.uber.org/zap"

// New builds a logger. Debug selects the development config at debug level;
// otherwise the production config logs info and above. Console encoding in
// both cases: the output is for operators running a CLI, not a collector.
func New(debug bool) (*zap.Logger, error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	cfg.Encoding = "console"
	return cfg.Build()
}
