// Command booking-api runs the clinic appointment booking service.
//
// @title                       Clinic Booking API
// @version                     1.0
// @description                 Appointment booking for the clinic: directory, self-service bookings and the staff console.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vedaclinic/booking-api/internal/api"
	"github.com/vedaclinic/booking-api/internal/core/domain"
	"github.com/vedaclinic/booking-api/internal/infrastructure/config"
	mongostore "github.com/vedaclinic/booking-api/internal/infrastructure/db/mongo"
	"github.com/vedaclinic/booking-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	rootCmd := &cobra.Command{
		Use:           "booking-api",
		Short:         "Clinic appointment booking API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(indexesCmd())
	rootCmd.AddCommand(promoteCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

func indexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Create the MongoDB indexes, including the slot uniqueness index",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			if err := mongostore.EnsureIndexes(ctx, a.indexers()...); err != nil {
				return err
			}
			a.log.Info().Msg("indexes ensured")
			return nil
		},
	}
}

func promoteCmd() *cobra.Command {
	var email, by string
	var setRole bool

	cmd := &cobra.Command{
		Use:   "promote",
		Short: "Record an approved admin promotion for an email",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			operator := domain.Identity{Authenticated: true, UserID: "cli:" + by, IsAdmin: true}
			p, err := a.admin.PromoteToAdmin(ctx, operator, email)
			if err != nil {
				return err
			}

			if setRole {
				if err := a.authRepo.SetRole(ctx, p.TargetEmail, string(domain.RoleAdmin)); err != nil {
					return fmt.Errorf("set role claim: %w", err)
				}
			}
			a.log.Info().Str("email", p.TargetEmail).Bool("role_claim", setRole).Msg("promotion recorded")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email to promote")
	cmd.Flags().StringVar(&by, "by", "operator", "who requested the promotion")
	cmd.Flags().BoolVar(&setRole, "set-role", false, "also write the admin role claim on the account")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func runServer(ctx context.Context) error {
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if err := mongostore.EnsureIndexes(ctx, a.indexers()...); err != nil {
		return err
	}

	unsubscribe := a.auth.Subscribe(a.gate.HandleAuthEvent)
	defer unsubscribe()

	e := api.NewRouter(a.routerDeps())

	go func() {
		a.log.Info().Str("port", a.cfg.Port).Msg("starting server")
		if err := e.Start(":" + a.cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	a.log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	a.log.Info().Msg("server stopped")
	return nil
}

// loadConfig reads an optional .env file, then the environment.
func loadConfig(ctx context.Context) (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "booking-api",
	})
	return cfg, nil
}
