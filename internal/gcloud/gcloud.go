// Package gcloud assembles client options shared by the Google speech,
// text-to-speech and translation services.
package gcloud

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

type Credentials struct {
	// CredentialsFile is a service account or authorized user JSON file.
	CredentialsFile string
	// APIKey is used when no credentials file is configured.
	APIKey string
}

// ClientOptions picks, in order: the credentials file, the API key, or
// application default credentials.
func ClientOptions(ctx context.Context, c Credentials) ([]option.ClientOption, error) {
	switch {
	case c.CredentialsFile != "":
		data, err := os.ReadFile(c.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read google credentials: %w", err)
		}
		creds, err := google.CredentialsFromJSON(ctx, data, cloudPlatformScope)
		if err != nil {
			return nil, fmt.Errorf("parse google credentials: %w", err)
		}
		return []option.ClientOption{option.WithTokenSource(creds.TokenSource)}, nil
	case c.APIKey != "":
		return []option.ClientOption{option.WithAPIKey(c.APIKey)}, nil
	default:
		ts, err := google.DefaultTokenSource(ctx, cloudPlatformScope)
		if err != nil {
			return nil, fmt.Errorf("google default credentials: %w", err)
		}
		return []option.ClientOption{option.WithTokenSource(ts)}, nil
	}
}
