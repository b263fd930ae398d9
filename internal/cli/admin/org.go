package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/helperly/helperly/internal/config"
	"github.com/helperly/helperly/internal/database"
	"github.com/helperly/helperly/internal/domain"
	"github.com/helperly/helperly/internal/repository"
	"github.com/helperly/helperly/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

// orgJSON is the shape both subcommands print with -o json.
type orgJSON struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func OrgCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "org",
		Short: "Manage organizations",
		Long:  "Create and list organizations",
	}

	cmd.AddCommand(OrgCreateCmd(), OrgListCmd())
	return cmd
}

func OrgCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("output")
			return runOrgCreate(args[0], format)
		},
	}

	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
	return cmd
}

func runOrgCreate(name, format string) error {
	ctx := context.Background()

	pool, err := openAdminPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	org := &domain.Organization{
		ID:        (&service.DefaultUUIDGenerator{}).NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := domain.ValidateOrganization(org); err != nil {
		return err
	}
	if err := repository.NewOrgRepository(pool).Create(ctx, org); err != nil {
		return fmt.Errorf("create organization: %w", err)
	}

	if format == "json" {
		return printJSON(orgJSON{ID: org.ID, Name: org.Name, CreatedAt: org.CreatedAt})
	}
	fmt.Printf("Organization created: %s (%s)\n", org.Name, org.ID)
	return nil
}

func OrgListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all organizations",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("output")
			return runOrgList(format)
		},
	}

	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
	return cmd
}

func runOrgList(format string) error {
	ctx := context.Background()

	pool, err := openAdminPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	orgs, err := repository.NewOrgRepository(pool).List(ctx)
	if err != nil {
		return fmt.Errorf("list organizations: %w", err)
	}

	if format == "json" {
		out := make([]orgJSON, len(orgs))
		for i, org := range orgs {
			out[i] = orgJSON{ID: org.ID, Name: org.Name, CreatedAt: org.CreatedAt}
		}
		return printJSON(out)
	}

	if len(orgs) == 0 {
		fmt.Println("No organizations found")
		return nil
	}
	fmt.Println("Organizations:")
	for _, org := range orgs {
		fmt.Printf("  %s: %s (created: %s)\n", org.ID, org.Name, org.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func openAdminPool(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	pool, err := database.Connect(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return pool, nil
}
