package gcalendar

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
)

func oauthConfigFromJSON(credentialsJSON []byte) (*oauth2.Config, error) {
	config, err := google.ConfigFromJSON(credentialsJSON, calendar.CalendarEventsScope)
	if err != nil {
		return nil, fmt.Errorf("not an OAuth Desktop App credentials file: %w", err)
	}
	return config, nil
}

// AuthCodeURL returns the consent URL for OAuth Desktop credentials.
func AuthCodeURL(credentialsJSON []byte) (string, error) {
	config, err := oauthConfigFromJSON(credentialsJSON)
	if err != nil {
		return "", err
	}
	return config.AuthCodeURL("state-token", oauth2.AccessTypeOffline), nil
}

// ExchangeAndSave trades an authorization code for a token and writes it to tokenPath.
func ExchangeAndSave(ctx context.Context, credentialsJSON []byte, code, tokenPath string) error {
	config, err := oauthConfigFromJSON(credentialsJSON)
	if err != nil {
		return err
	}

	tok, err := config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	f, err := os.OpenFile(tokenPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", tokenPath, err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(tok); err != nil {
		return fmt.Errorf("failed to write %s: %w", tokenPath, err)
	}
	return nil
}
