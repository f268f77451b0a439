package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"invoscope/internal/authz"
	"invoscope/internal/database"
	"invoscope/internal/logger"
	"invoscope/internal/model"
	"invoscope/internal/repository"
	"invoscope/internal/service"
)

var rootCmd = &cobra.Command{
	Use:   "invoicectl",
	Short: "Operational CLI for the invoice analytics backend",
	Long: `invoicectl talks directly to the backing database for operational
tasks: seeding roles and the first Super Admin, and pulling external
invoice feeds into a tenant without going through the HTTP API.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load("configs/.env"); err != nil {
			log.Debug().Msg("no configs/.env file found")
		}
		return logger.Setup(logger.FromEnv())
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed built-in roles and the first Super Admin",
	Example: `  # Seed roles and create the bootstrap Super Admin
  invoicectl seed --email admin@example.com --password changeme`,
	RunE: runSeed,
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import invoices from a JSON feed into a tenant",
	Example: `  # Pull a feed into the tenant with the given id
  invoicectl import --tenant 1b4e28ba-2fa1-11d2-883f-0016d3cca427 --url https://feeds.example.com/invoices.json`,
	RunE: runImport,
}

func init() {
	seedCmd.Flags().String("email", "", "Super Admin email")
	seedCmd.Flags().String("password", "", "Super Admin password")

	importCmd.Flags().String("tenant", "", "Target tenant id")
	importCmd.Flags().String("url", "", "Feed URL")

	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(importCmd)
}

func connect() (*gorm.DB, error) {
	return database.NewConnection(database.DSNFromEnv())
}

func runSeed(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	if email == "" || password == "" {
		return errors.New("--email and --password are required")
	}

	db, err := connect()
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}

	ctx := context.Background()
	roleRepo := repository.NewRoleRepository(db)

	defaults := make([]model.Role, 0, len(authz.AllRoles()))
	for _, name := range authz.AllRoles() {
		defaults = append(defaults, model.Role{Name: name, IsSystem: true})
	}
	if err := roleRepo.EnsureDefaults(ctx, defaults); err != nil {
		return fmt.Errorf("role seeding failed: %w", err)
	}
	log.Info().Msg("built-in roles seeded")

	userService := service.NewUserService(
		repository.NewUserRepository(db),
		roleRepo,
		repository.NewTenantRepository(db),
		repository.NewRefreshTokenRepository(db),
	)
	user, err := userService.CreateUser(ctx, service.CreateUserRequest{
		Email:     email,
		Password:  password,
		FirstName: "Super",
		LastName:  "Admin",
		Roles:     []string{authz.RoleSuperAdmin},
	}, uuid.Nil)
	if err != nil {
		return fmt.Errorf("super admin creation failed: %w", err)
	}

	log.Info().Str("email", user.Email).Msg("super admin created")
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	tenantRaw, _ := cmd.Flags().GetString("tenant")
	feedURL, _ := cmd.Flags().GetString("url")
	if tenantRaw == "" || feedURL == "" {
		return errors.New("--tenant and --url are required")
	}
	tenantID, err := uuid.Parse(tenantRaw)
	if err != nil {
		return fmt.Errorf("invalid tenant id: %w", err)
	}

	db, err := connect()
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}

	auditService := service.NewAuditService(repository.NewAuditRepository(db))
	importService := service.NewImportService(repository.NewInvoiceRepository(db), auditService, nil)

	result, err := importService.ImportFromFeed(cmd.Context(), feedURL, tenantID, uuid.Nil)
	if err != nil {
		return fmt.Errorf("feed import failed: %w", err)
	}

	log.Info().
		Int("fetched", result.Fetched).
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Msg("feed import finished")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
