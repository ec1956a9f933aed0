package root

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"notiyou/internal/app"
	"notiyou/internal/config"
	"notiyou/internal/logger"

	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:           "missionctl",
	Short:         "Run the mission jobs once from the command line",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (e.g. etc/config-dev.yaml)")
	rootCmd.AddCommand(
		newCreateMissionsCmd(),
		newNotifyFailedCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error: "+err.Error())
		os.Exit(1)
	}
}

func openServices(ctx context.Context) (*app.Services, func(), error) {
	cfg := config.Load(configFile)
	logger.Init(cfg.Log)
	return app.Open(ctx, cfg)
}

// printEnvelope writes the same body the HTTP endpoint would return.
func printEnvelope(w io.Writer, data any, err error) error {
	body := map[string]any{"success": err == nil}
	if err != nil {
		body["error"] = err.Error()
	} else {
		body["data"] = data
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if encErr := enc.Encode(body); encErr != nil {
		return encErr
	}
	return err
}
