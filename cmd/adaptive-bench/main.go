package main

import (
	"os"

	"github.com/sgostarter/i/l"
)

func main() {
	logger := l.NewConsoleLoggerWrapper()

	if err := newRootCmd(logger).Execute(); err != nil {
		os.Exit(1)
	}
}
