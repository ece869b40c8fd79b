package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"portfolio-site/internal/app"
	"portfolio-site/internal/baas/postgres"
	"portfolio-site/internal/config"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openPool loads the config and connects to the postgres database. The caller
// must close the pool.
func openPool(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.Backend.Driver != config.DriverPostgres {
		return nil, fmt.Errorf("BACKEND_DRIVER is %q; this command needs %q", cfg.Backend.Driver, config.DriverPostgres)
	}
	return postgres.NewPool(ctx, app.PostgresConfig(cfg, app.Collections(cfg)))
}

var rootCmd = &cobra.Command{
	Use:          "portfolioctl",
	Short:        "Administer the portfolio site",
	SilenceUsage: true,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations (postgres driver)",
	RunE: func(cmd *cobra.Command, args []string) error {
		pool, err := openPool(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := postgres.Migrate(cmd.Context(), pool); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
		return nil
	},
}

// user command
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage admin accounts (postgres driver)",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		name, _ := cmd.Flags().GetString("name")
		password, _ := cmd.Flags().GetString("password")
		if strings.TrimSpace(email) == "" {
			return errors.New("--email is required")
		}
		if password == "" {
			fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
			p, err := readLine(cmd.InOrStdin())
			if err != nil {
				return err
			}
			password = p
		}
		if password == "" {
			return errors.New("password must not be empty")
		}

		pool, err := openPool(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()

		u, err := postgres.CreateUser(cmd.Context(), pool, email, name, password)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created user %s\n", u.Email)
		fmt.Fprintf(cmd.OutOrStdout(), "ID: %s\n", u.ID)
		fmt.Fprintln(cmd.OutOrStdout(), "Set SUPER_ADMIN_ID to this id to make the account the site owner.")
		return nil
	},
}

// sessions command
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage admin sessions (postgres driver)",
}

var sessionsPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete expired sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		pool, err := openPool(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()

		n, err := postgres.PurgeExpiredSessions(cmd.Context(), pool)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired sessions\n", n)
		return nil
	},
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the environment and list warnings",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		printSummary(cmd.OutOrStdout(), cfg)
		return nil
	},
}

func printSummary(w io.Writer, cfg *config.Config) {
	fmt.Fprintf(w, "Backend: %s\n", cfg.Backend.Driver)
	fmt.Fprintf(w, "Cache:   %s\n", cfg.Cache.Driver)
	fmt.Fprintf(w, "Collections: projects=%s about=%s messages=%s bucket=%s\n",
		cfg.Content.ProjectsCollectionID, cfg.Content.AboutCollectionID,
		cfg.Content.MessagesCollectionID, cfg.Content.StorageBucketID)
	warnings := cfg.Warnings()
	if len(warnings) == 0 {
		fmt.Fprintln(w, "OK")
		return
	}
	for _, warning := range warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func init() {
	rootCmd.AddCommand(migrateCmd)

	userCmd.AddCommand(userCreateCmd)
	userCreateCmd.Flags().String("email", "", "Account email")
	userCreateCmd.Flags().String("name", "", "Display name")
	userCreateCmd.Flags().String("password", "", "Password (prompted on stdin when empty)")
	rootCmd.AddCommand(userCmd)

	sessionsCmd.AddCommand(sessionsPurgeCmd)
	rootCmd.AddCommand(sessionsCmd)

	configCmd.AddCommand(configCheckCmd)
	rootCmd.AddCommand(configCmd)
}
