package cli

import (
	"github.com/spf13/cobra"

	"github.com/memememomo/bedrock-iac/internal/config"
	"github.com/memememomo/bedrock-iac/internal/logging"
)

var (
	logLevel string
	cfg      *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "bedrock-iac",
	Short: "Run the knowledge base index provisioners locally",
	Long: `bedrock-iac drives the custom-resource handlers that provision the vector
index behind a Bedrock knowledge base.

It can:
  • Replay a lifecycle event against the OpenSearch or Pinecone backend
  • Print the k-NN index body sent to the search collection`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}
		if logLevel != "" {
			c.LogLevel = logLevel
		}
		logging.Init(c.LogLevel, "text")
		cfg = c
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(invokeCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(versionCmd)
}
