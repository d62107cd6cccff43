package cmd

import (
	"context"

	"bling-sync/feature/bling"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// authCmd groups the OAuth maintenance commands.
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the ERP authorization",
}

var authURLCmd = &cobra.Command{
	Use:   "url",
	Short: "Print the URL that grants the application access",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, l, err := loadConfig()
		if err != nil {
			return err
		}
		defer l.Sync()

		url := bling.OAuthConfig(cfg.Bling).AuthCodeURL(uuid.NewString(), oauth2.AccessTypeOffline)
		l.Info("Open this URL and pass the returned code to 'auth code'", zap.String("url", url))
		return nil
	},
}

var authCodeCmd = &cobra.Command{
	Use:   "code <code>",
	Short: "Store a new authorization code",
	Long:  `Stores the code returned by the authorization redirect and drops the current tokens. The next call exchanges it.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, l, err := loadConfig()
		if err != nil {
			return err
		}
		defer l.Sync()

		db, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		if err := bling.NewTokenStore(db).SaveCode(context.Background(), args[0]); err != nil {
			return err
		}
		l.Info("Authorization code stored")
		return nil
	},
}

func init() {
	authCmd.AddCommand(authURLCmd, authCodeCmd)
	RootCmd.AddCommand(authCmd)
}
