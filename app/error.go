package app

import "github.com/xy-planning-network/sik"

// A ConfigurationError reports a Config missing a field the environment requires.
type ConfigurationError struct {
	Field string
	Msg   string
}

func (e *ConfigurationError) Error() string { return e.Msg }

// Is makes a *ConfigurationError match sik.ErrBadConfig.
func (e *ConfigurationError) Is(target error) bool { return target == sik.ErrBadConfig }
