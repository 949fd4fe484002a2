package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/memememomo/bedrock-iac/internal/opensearch"
	"github.com/memememomo/bedrock-iac/internal/pinecone"
	"github.com/memememomo/bedrock-iac/internal/provisioner"
	"github.com/memememomo/bedrock-iac/internal/resource"
)

var (
	invokeBackend  string
	invokeEvent    string
	invokeLogGroup string
)

var invokeCmd = &cobra.Command{
	Use:   "invoke",
	Short: "Run one lifecycle event through a provisioner",
	Long: `Reads a custom-resource lifecycle event (JSON) and handles it exactly as the
Lambda function would, printing the response envelope.

Use "-" as the event path to read from stdin.`,
	RunE: runInvoke,
}

func init() {
	invokeCmd.Flags().StringVar(&invokeBackend, "backend", "opensearch", "Backend to use (opensearch, pinecone)")
	invokeCmd.Flags().StringVarP(&invokeEvent, "event", "e", "-", "Path to the event JSON file")
	invokeCmd.Flags().StringVar(&invokeLogGroup, "log-group", "local", "Identifier used as the fallback physical resource id")
}

// newBackend builds the named backend from the loaded configuration.
var newBackend = func(cmd *cobra.Command, name string) (provisioner.Backend, error) {
	switch name {
	case "opensearch":
		return opensearch.NewBackendFromConfig(cmd.Context(), cfg)
	case "pinecone":
		return pinecone.NewDefaultBackend(), nil
	default:
		return nil, fmt.Errorf("unknown backend: %s", name)
	}
}

func runInvoke(cmd *cobra.Command, args []string) error {
	raw, err := readEvent(cmd, invokeEvent)
	if err != nil {
		return err
	}

	var event resource.Event
	if err := json.Unmarshal(raw, &event); err != nil {
		return fmt.Errorf("failed to parse event: %w", err)
	}

	backend, err := newBackend(cmd, invokeBackend)
	if err != nil {
		return err
	}

	p := provisioner.New(backend, provisioner.WithTimeouts(cfg.OperationTimeout, cfg.ResponseMargin))
	resp := p.Handle(cmd.Context(), event, resource.Invocation{
		RequestID:    "local",
		LogGroupName: invokeLogGroup,
	})

	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))

	if resp.Status == resource.StatusFailed {
		return fmt.Errorf("provisioning failed: %s", resp.Reason)
	}
	return nil
}

func readEvent(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read event from stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read event file: %w", err)
	}
	return data, nil
}
