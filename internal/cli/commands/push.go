package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/strata3d/strata/internal/cli/config"
	"github.com/strata3d/strata/pkg/client"
	"github.com/strata3d/strata/pkg/omf"
)

// NewPushCommand creates the push command
func NewPushCommand(verbose *bool) *cobra.Command {
	var (
		endpoint string
		key      string
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "push <project.json>",
		Short: "Upload an interchange project as Strata line resources",
		Long: `Import every line-set element from an OMF-style interchange project file,
validate it, and upload it to the Strata endpoint. Only arrays that changed
since the last successful sync are sent unless --force is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if endpoint != "" {
				cfg.Endpoint = endpoint
			}
			if key != "" {
				cfg.APIKey = key
			}
			if cfg.APIKey == "" {
				keys, err := config.ReadKeys(cfg.CredentialsFile)
				if err != nil {
					return err
				}
				cfg.APIKey = config.LookupKey(keys, "")
			}
			if cfg.APIKey == "" {
				return fmt.Errorf("no API key: run 'strata login' or set STRATA_API_KEY")
			}

			project, err := omf.LoadProject(args[0])
			if err != nil {
				return err
			}
			if len(project.Elements) == 0 {
				return fmt.Errorf("%s: project has no line-set elements", args[0])
			}

			log, err := newLogger(*verbose)
			if err != nil {
				return err
			}
			defer log.Sync()

			session, err := client.NewSession(
				client.WithEndpoint(cfg.Endpoint),
				client.WithLogger(log),
			)
			if err != nil {
				return err
			}
			if err := session.Login(cmd.Context(), cfg.APIKey); err != nil {
				return err
			}

			success := color.New(color.FgGreen)
			for _, element := range project.Elements {
				line, err := omf.ImportLineSet(project, element)
				if err != nil {
					return err
				}
				uid, err := session.UploadLine(cmd.Context(), line, force)
				if err != nil {
					return fmt.Errorf("upload %q: %w", element.Name, err)
				}
				success.Printf("✓ %s → %s\n", element.Name, session.ResourceURL(uid))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&endpoint, "endpoint", "e", "", "target Strata endpoint")
	cmd.Flags().StringVarP(&key, "key", "k", "", "API developer key")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "re-upload every array, not just dirty ones")

	return cmd
}
