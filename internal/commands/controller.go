// Package commands contains the CLI commands for the application
package commands

import (
	"github.com/rs/zerolog"
)

type Flags struct {
	LogLevel string
}

type Controller struct {
	Flags  *Flags
	Logger zerolog.Logger
}
