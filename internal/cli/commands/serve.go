package commands

import (
	"fmt"
	"net/http"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/strata3d/strata/internal/devserver"
)

// NewServeCommand creates the serve command
func NewServeCommand(verbose *bool) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local in-memory Strata endpoint",
		Long: `Serve the Strata upload/download API from memory. Useful for trying the
client without an account: point the CLI at it with
--endpoint http://localhost:8080/ and any well-formed key.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			if !*verbose {
				log = log.WithOptions(zap.IncreaseLevel(zap.InfoLevel))
			}
			defer log.Sync()

			addr := fmt.Sprintf("%s:%d", host, port)
			color.New(color.FgCyan, color.Bold).Printf("Strata dev endpoint on http://%s/\n", addr)

			server := devserver.New(log)
			return http.ListenAndServe(addr, server.Router())
		},
	}

	cmd.Flags().StringVar(&host, "host", "localhost", "interface to bind")
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "port to bind")

	return cmd
}
