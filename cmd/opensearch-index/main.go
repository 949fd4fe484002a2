package main

import (
	"context"
	"fmt"
	"os"

	"github.com/memememomo/bedrock-iac/internal/config"
	"github.com/memememomo/bedrock-iac/internal/logging"
	"github.com/memememomo/bedrock-iac/internal/opensearch"
	"github.com/memememomo/bedrock-iac/internal/provisioner"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logging.Init(cfg.LogLevel, cfg.LogFormat)

	backend, err := opensearch.NewBackendFromConfig(context.Background(), cfg)
	if err != nil {
		logging.Error("failed to initialise backend", "error", err)
		os.Exit(1)
	}

	p := provisioner.New(backend, provisioner.WithTimeouts(cfg.OperationTimeout, cfg.ResponseMargin))
	if err := p.Start(cfg.InvocationMode); err != nil {
		logging.Error("failed to start handler", "error", err)
		os.Exit(1)
	}
}
