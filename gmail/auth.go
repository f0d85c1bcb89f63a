package gmail

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/asweigart/ezgmail/browser"
)

const (
	defaultCredentialsFile = "credentials.json"
	defaultTokenFile       = "token.json"
	defaultUserID          = "me"
)

// Options configures NewSession. The zero value selects credentials.json and
// token.json in the current directory and the "me" user id.
type Options struct {
	// CredentialsFile is the OAuth client secret file downloaded from the
	// Google API console.
	CredentialsFile string
	// TokenFile stores the granted token between runs. If it is missing or
	// unusable, NewSession runs the interactive consent flow and writes it.
	TokenFile string
	// UserID is the Gmail API user id. Leave empty for "me", the logged-in
	// account.
	UserID string
}

func newService(ctx context.Context, opts Options) (*gmailapi.Service, error) {
	credentialsFile := opts.CredentialsFile
	if credentialsFile == "" {
		credentialsFile = defaultCredentialsFile
	}
	tokenFile := opts.TokenFile
	if tokenFile == "" {
		tokenFile = defaultTokenFile
	}

	config, err := loadOAuthConfig(credentialsFile)
	if err != nil {
		return nil, err
	}

	token, err := tokenFromFile(tokenFile)
	if err != nil {
		token, err = tokenFromConsent(ctx, config)
		if err != nil {
			return nil, err
		}
		if err := saveToken(tokenFile, token); err != nil {
			return nil, err
		}
	}

	svc, err := gmailapi.NewService(ctx, option.WithHTTPClient(config.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("gmail: building Gmail service failed: %w", err)
	}
	return svc, nil
}

func loadOAuthConfig(credentialsFile string) (*oauth2.Config, error) {
	raw, err := os.ReadFile(credentialsFile)
	if err != nil {
		if os.IsNotExist(err) {
			abs, _ := filepath.Abs(credentialsFile)
			return nil, fmt.Errorf("gmail: can't find credentials file at %s; enable the Gmail API in the Google API console, download the OAuth client file, and save it as %s", abs, credentialsFile)
		}
		return nil, fmt.Errorf("gmail: reading credentials file failed: %w", err)
	}

	config, err := google.ConfigFromJSON(raw, gmailapi.MailGoogleComScope)
	if err != nil {
		return nil, fmt.Errorf("gmail: parsing credentials file %s failed: %w", credentialsFile, err)
	}
	return config, nil
}

func tokenFromFile(tokenFile string) (*oauth2.Token, error) {
	f, err := os.Open(tokenFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	token := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(token); err != nil {
		return nil, fmt.Errorf("gmail: parsing token file %s failed: %w", tokenFile, err)
	}
	if !token.Valid() && token.RefreshToken == "" {
		return nil, fmt.Errorf("gmail: token in %s is expired and has no refresh token", tokenFile)
	}
	return token, nil
}

// tokenFromConsent runs the interactive OAuth consent flow: open the consent
// URL in a browser (printing it as a fallback) and read the authorization
// code from stdin.
func tokenFromConsent(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	if err := browser.OpenURL(authURL); err != nil {
		fmt.Printf("Open the following link in your browser:\n%s\n", authURL)
	}
	fmt.Print("Enter the authorization code: ")

	var code string
	if _, err := fmt.Scan(&code); err != nil {
		return nil, fmt.Errorf("gmail: reading authorization code failed: %w", err)
	}

	token, err := config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("gmail: exchanging authorization code failed: %w", err)
	}
	return token, nil
}

func saveToken(tokenFile string, token *oauth2.Token) error {
	f, err := os.Create(tokenFile)
	if err != nil {
		return fmt.Errorf("gmail: creating token file %s failed: %w", tokenFile, err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(token); err != nil {
		return fmt.Errorf("gmail: writing token file %s failed: %w", tokenFile, err)
	}
	return nil
}
