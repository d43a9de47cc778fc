package state

import (
	"fmt"

	"stylo/config"
	"stylo/css"
	"stylo/ledger"
	"stylo/registry"
	"stylo/sink"
)

// NewCompiler returns CSS compiler set up according to configuration.
func (e *LocalEnv) NewCompiler() *css.Compiler {
	var opts []css.CompilerOption
	if e.Cfg.Compiler.Prefixer == config.PrefixerNone {
		opts = append(opts, css.WithPrefixer(css.NopPrefixer{}))
	}
	if len(e.Cfg.Compiler.Unitless) > 0 {
		opts = append(opts, css.WithUnitless(e.Cfg.Compiler.Unitless...))
	}
	return css.NewCompiler(e.Log, opts...)
}

// NewRegistry returns registry in live mode routing output to s.
func (e *LocalEnv) NewRegistry(s sink.Sink) (*registry.Registry, error) {
	opts := []registry.Option{
		registry.WithPrefix(e.Cfg.Compiler.ClassPrefix),
		registry.WithCompiler(e.NewCompiler()),
		registry.WithSink(s),
	}
	if e.Cfg.Compiler.SortFingerprintKeys {
		opts = append(opts, registry.WithSortedFingerprint())
	}
	r, err := registry.New(e.Log, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create style registry: %w", err)
	}
	return r, nil
}

// OpenLedger opens ledger named on command line or in configuration. It
// returns nil when neither names one.
func (e *LocalEnv) OpenLedger() (*ledger.Ledger, error) {
	path := e.LedgerPath
	if len(path) == 0 {
		path = e.Cfg.Ledger.Path
	}
	if len(path) == 0 {
		return nil, nil
	}
	l, err := ledger.Open(path, e.Log)
	if err != nil {
		return nil, fmt.Errorf("unable to open ledger: %w", err)
	}
	e.Rpt.Store("ledger.sqlite", path)
	return l, nil
}
