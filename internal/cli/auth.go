package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication commands",
	}

	cmd.AddCommand(newAuthTokenCmd())
	cmd.AddCommand(newAuthUserInfoCmd())
	cmd.AddCommand(newAuthRefreshCmd())

	return cmd
}

func newAuthTokenCmd() *cobra.Command {
	var user, pass string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Authenticate and obtain a token pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"username":   user,
				"password":   pass,
				"grant_type": "password",
			}
			var result TokenResult

			if err := client.Post("/auth/token", req, &result); err != nil {
				return err
			}

			// Save access token for subsequent commands
			if err := cfg.SaveToken(result.AccessToken); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Username (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newAuthUserInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "userinfo",
		Short: "Show the authenticated user",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result UserInfo

			if err := client.Get("/auth/userinfo", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newAuthRefreshCmd() *cobra.Command {
	var refreshToken string

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Exchange a refresh token for a new token pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"refresh_token": refreshToken,
				"grant_type":    "refresh_token",
			}
			var result TokenResult

			if err := client.Post("/auth/refresh", req, &result); err != nil {
				return err
			}

			if err := cfg.SaveToken(result.AccessToken); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&refreshToken, "refresh-token", "", "Refresh token (required)")
	_ = cmd.MarkFlagRequired("refresh-token")

	return cmd
}
