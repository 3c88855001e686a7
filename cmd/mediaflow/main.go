package main

import (
	"fmt"
	"os"

	"github.com/mediaflow/mediaflow/internal/logger"
	"github.com/mediaflow/mediaflow/internal/registry"
)

func main() {
	log, err := logger.New(logger.Options{Level: "info", HumanReadable: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}

	reg := registry.New(log)
	if err := registerBuiltins(reg); err != nil {
		fmt.Fprintf(os.Stderr, "failed to register plugins: %v\n", err)
		os.Exit(1)
	}

	setAppContext(reg, log)

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
