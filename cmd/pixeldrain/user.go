package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.pd.User.Current(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "username:     %s\n", u.Username)
			fmt.Fprintf(out, "subscription: %s\n", u.Subscription.Name)
			fmt.Fprintf(out, "storage used: %d\n", u.StorageSpaceUsed)

			return nil
		},
	}
}

func newLoginCmd(a *app) *cobra.Command {
	var (
		username string
		appName  string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Exchange credentials for an API key and save it",
		Long:  "Reads the password from stdin, requests an API key and writes it to the config file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				return errors.New("--username is required")
			}

			fmt.Fprint(cmd.ErrOrStderr(), "password: ")
			password, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && password == "" {
				return fmt.Errorf("reading password: %w", err)
			}
			password = strings.TrimRight(password, "\r\n")

			resp, err := a.pd.User.Login(cmd.Context(), username, password, appName)
			if err != nil {
				return err
			}

			a.cfg.APIKey = resp.AuthKey
			if err := a.cfg.Save(a.configPath); err != nil {
				return fmt.Errorf("saving api key: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s, key saved to %s\n", username, a.configPath)

			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Account username")
	cmd.Flags().StringVar(&appName, "app-name", "pixeldrain-go", "Name recorded for the new key")

	return cmd
}
