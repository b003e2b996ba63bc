package strategy

import "errors"

var (
	ErrUnknownStrategy = errors.New("unknown strategy")
	ErrNotStarted      = errors.New("strategy not started")
	ErrEmptyUniverse   = errors.New("strategy has no securities")
	ErrNoExecutor      = errors.New("strategy has no executor")
)
