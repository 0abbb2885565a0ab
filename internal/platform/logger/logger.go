package logger

import (
	"log"
	"os"
)

// New returns a stdout logger shared by the worker processes; swap in
// structured logging when needed.
func New() *log.Logger {
	return log.New(os.Stdout, "", log.LstdFlags)
}
