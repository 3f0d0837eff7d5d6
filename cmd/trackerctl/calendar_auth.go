package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"time-tracking-bot/pkg/gcalendar"
)

func calendarAuthCmd(flags *rootFlags) *cobra.Command {
	var credentialsPath, tokenPath string

	cmd := &cobra.Command{
		Use:   "calendar-auth",
		Short: "Authorize Google Calendar access and save the OAuth token",
		Long: `Run once with OAuth Desktop credentials: open the printed URL, sign in,
and paste the authorization code. Service account credentials need no token.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if credentialsPath == "" || tokenPath == "" {
				if cfg, err := flags.loadConfig(); err == nil {
					if credentialsPath == "" {
						credentialsPath = cfg.GoogleCalendar.CredentialsPath
					}
					if tokenPath == "" {
						tokenPath = cfg.GoogleCalendar.TokenPath
					}
				}
			}
			if credentialsPath == "" {
				return fmt.Errorf("--credentials is required")
			}
			if tokenPath == "" {
				tokenPath = gcalendar.DefaultTokenPath
			}

			creds, err := os.ReadFile(credentialsPath)
			if err != nil {
				return fmt.Errorf("read credentials %q: %w", credentialsPath, err)
			}
			authURL, err := gcalendar.AuthCodeURL(creds)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "1. Open this URL and sign in with the calendar owner's account:")
			fmt.Fprintln(out)
			fmt.Fprintln(out, authURL)
			fmt.Fprintln(out)
			fmt.Fprint(out, "2. Paste the authorization code: ")

			line, readErr := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			code := strings.TrimSpace(line)
			if code == "" {
				if readErr != nil {
					return fmt.Errorf("no authorization code: %w", readErr)
				}
				return fmt.Errorf("no authorization code")
			}

			if err := gcalendar.ExchangeAndSave(cmd.Context(), creds, code, tokenPath); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nToken saved to %s. Restart the bot to enable the calendar mirror.\n", tokenPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&credentialsPath, "credentials", "", "OAuth Desktop credentials JSON (default: google_calendar.credentials_path)")
	cmd.Flags().StringVar(&tokenPath, "token", "", "where to write the token (default: google_calendar.token_path)")

	return cmd
}
