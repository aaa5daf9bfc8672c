package commands

import (
	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/strata3d/strata/internal/cli/config"
	"github.com/strata3d/strata/pkg/client"
)

const welcomeMessage = `
If you do not have a Strata developer key, request one from your account
settings on the Strata site, then enter it below. Your key is your
username followed by "//" and a 36-character token.`

// NewLoginCommand creates the login command
func NewLoginCommand(verbose *bool) *cobra.Command {
	var (
		key             string
		endpoint        string
		skipCredentials bool
	)

	cmd := &cobra.Command{
		Use:   "login [key-or-username]",
		Short: "Verify an API developer key and store it locally",
		Long: `Verify an API developer key against the Strata endpoint and save it to
the local credentials file for later commands. The argument may be a full
key, or a username whose key is already stored. With no argument the first
stored key is used, or a prompt appears.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if endpoint != "" {
				cfg.Endpoint = endpoint
			}

			arg := key
			if arg == "" && len(args) == 1 {
				arg = args[0]
			}

			resolved := arg
			if !skipCredentials {
				keys, err := config.ReadKeys(cfg.CredentialsFile)
				if err != nil {
					return err
				}
				resolved = config.LookupKey(keys, arg)
			}

			if resolved == "" {
				cmd.Println(welcomeMessage)
				prompt := &survey.Input{Message: "API developer key:"}
				if err := survey.AskOne(prompt, &resolved, survey.WithValidator(survey.Required)); err != nil {
					return err
				}
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
			if err := session.Login(cmd.Context(), resolved); err != nil {
				return err
			}

			if !skipCredentials {
				if err := config.StoreKey(cfg.CredentialsFile, resolved); err != nil {
					return err
				}
			}

			color.New(color.FgGreen, color.Bold).Printf("Logged in as @%s\n", session.Username())
			return nil
		},
	}

	cmd.Flags().StringVarP(&key, "key", "k", "", "API developer key or stored username")
	cmd.Flags().StringVarP(&endpoint, "endpoint", "e", "", "target Strata endpoint")
	cmd.Flags().BoolVar(&skipCredentials, "skip-credentials", false, "do not read or write the credentials file")

	return cmd
}

// NewLogoutCommand creates the logout command
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove locally stored API developer keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := config.RemoveKeys(cfg.CredentialsFile); err != nil {
				return err
			}
			color.New(color.FgGreen).Println("Goodbye.")
			return nil
		},
	}
}
