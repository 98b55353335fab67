package internal

import "time"

// FnModeOptions carries runtime mode flags shared by the CLI and daemon
type FnModeOptions struct {
	Debug   bool
	Timeout time.Duration
}

type FnModeOption func(*FnModeOptions)

func WithDebug(debug bool) FnModeOption {
	return func(opts *FnModeOptions) {
		opts.Debug = debug
	}
}

// WithTimeout overrides the transport timeout, used by tests that
// simulate an unreachable device without waiting the full default
func WithTimeout(timeout time.Duration) FnModeOption {
	return func(opts *FnModeOptions) {
		opts.Timeout = timeout
	}
}

func NewModeOptions(options ...FnModeOption) *FnModeOptions {
	opts := &FnModeOptions{
		Debug: false,
	}
	for _, option := range options {
		option(opts)
	}
	return opts
}
