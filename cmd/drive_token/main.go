// Package main bootstraps the Google Drive OAuth token used by the report service.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"career-report/internal/adapter/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
)

var (
	credentialsPath string
	tokenPath       string
)

var rootCmd = &cobra.Command{
	Use:   "drive_token",
	Short: "Authorize Google Drive access and store a fresh token",
	Long:  "Deletes any existing token file, prints the consent URL, reads the authorization code from stdin and writes the exchanged token.",
	RunE:  runDriveToken,
}

func init() {
	rootCmd.Flags().StringVarP(&credentialsPath, "credentials", "c", envOr("DRIVE_CREDENTIALS_PATH", "client_secret.json"), "Path to the OAuth client secret JSON")
	rootCmd.Flags().StringVarP(&tokenPath, "token", "t", envOr("DRIVE_TOKEN_PATH", "token.json"), "Where to write the token JSON")
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func runDriveToken(cmd *cobra.Command, _ []string) error {
	b, err := os.ReadFile(credentialsPath)
	if err != nil {
		return fmt.Errorf("load client secret %s: %w", credentialsPath, err)
	}
	conf, err := google.ConfigFromJSON(b, drive.DriveScope)
	if err != nil {
		return fmt.Errorf("invalid credentials file: %w", err)
	}
	if conf.RedirectURL == "" {
		conf.RedirectURL = "http://localhost"
	}
	return authorize(cmd.Context(), conf, tokenPath, cmd.InOrStdin(), cmd.OutOrStdout())
}

// authorize runs the consent flow and replaces the token at tokenPath.
func authorize(ctx context.Context, conf *oauth2.Config, tokenPath string, in io.Reader, out io.Writer) error {
	if err := os.Remove(tokenPath); err == nil {
		fmt.Fprintf(out, "Old %s deleted.\n", tokenPath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove old token (delete it manually and retry): %w", err)
	}

	authURL := conf.AuthCodeURL("state", oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
	fmt.Fprintln(out, "Authorize this app by visiting this url:")
	fmt.Fprintln(out, authURL)
	fmt.Fprint(out, "Enter the code from that page here: ")

	code, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read code: %w", err)
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return errors.New("no authorization code entered")
	}

	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("retrieve access token: %w", err)
	}
	if err := storage.WriteToken(tokenPath, tok); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	fmt.Fprintf(out, "\nToken stored to %s\n", tokenPath)
	return nil
}
