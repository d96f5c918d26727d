package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tendant/simple-account/pkg/account"
	"github.com/tendant/simple-account/pkg/config"
	"github.com/tendant/simple-account/pkg/mail"
	"github.com/tendant/simple-account/pkg/password"
	"github.com/tendant/simple-account/pkg/profile"
	"github.com/tendant/simple-account/pkg/recovery"
	"github.com/tendant/simple-account/pkg/router"
	"github.com/tendant/simple-account/pkg/session"
	"github.com/tendant/simple-account/pkg/verification"
	"golang.org/x/sync/errgroup"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	var withWorker bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API. With MAIL_MODE=queue, --with-worker also runs the
mail worker in the same process.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, withWorker)
		},
	}

	cmd.Flags().BoolVar(&withWorker, "with-worker", false, "run the queued mail worker in-process")
	return cmd
}

// newRouterConfig wires the services for cfg on top of d.
func newRouterConfig(cfg config.Config, d *deps) (router.Config, error) {
	hasher, err := password.New(password.Algorithm(cfg.Security.PasswordHasher))
	if err != nil {
		return router.Config{}, err
	}

	codec, err := session.NewCodec(cfg.Session.JWTSecret, d.revoker,
		session.WithTTL(cfg.Session.TTL.Std()),
		session.WithIssuer(cfg.Session.JWTIssuer),
	)
	if err != nil {
		return router.Config{}, err
	}
	cookies := session.NewCookieSetter(cfg.Session.CookieName, cfg.IsProduction())
	dispatcher := d.newDispatcher()

	accountService := account.NewAccountService(d.repo, hasher, codec, dispatcher,
		account.WithMetrics(d.metrics),
	)
	verificationService := verification.NewVerificationService(d.repo, dispatcher,
		verification.WithTTL(cfg.OTP.TTL.Std()),
		verification.WithMetrics(d.metrics),
	)
	recoveryService := recovery.NewRecoveryService(d.repo, hasher, d.revoker, dispatcher,
		recovery.WithTTL(cfg.OTP.TTL.Std()),
		recovery.WithMaskUnknownEmail(cfg.Security.ResetMaskUnknownEmail),
		recovery.WithMetrics(d.metrics),
	)

	return router.Config{
		AccountHandle:      account.NewHandle(accountService, cookies),
		VerificationHandle: verification.NewHandle(verificationService),
		RecoveryHandle:     recovery.NewHandle(recoveryService),
		ProfileHandle:      profile.NewHandle(profile.NewProfileService(d.repo)),
		Codec:              codec,
		Cookies:            cookies,
		Metrics:            d.metrics,
		HealthCheck:        d.healthCheck,
		AllowedOrigins:     cfg.Security.CORSAllowedOrigins,
		Production:         cfg.IsProduction(),
	}, nil
}

func runServe(ctx context.Context, cfg config.Config, withWorker bool) error {
	if withWorker && cfg.Email.Mode != config.MailModeQueue {
		return fmt.Errorf("--with-worker requires MAIL_MODE=%s", config.MailModeQueue)
	}

	d, err := buildDeps(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Std())
		defer cancel()
		if err := d.Close(shutdownCtx); err != nil {
			slog.Error("Failed to release dependencies", "error", err)
		}
	}()

	routerCfg, err := newRouterConfig(cfg, d)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.New(routerCfg),
		ReadTimeout:  cfg.Server.ReadTimeout.Std(),
		WriteTimeout: cfg.Server.WriteTimeout.Std(),
		IdleTimeout:  cfg.Server.IdleTimeout.Std(),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("HTTP server listening", "addr", server.Addr, "env", cfg.AppEnv)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Std())
		defer cancel()
		slog.Info("Shutting down HTTP server")
		return server.Shutdown(shutdownCtx)
	})

	if withWorker {
		worker := mail.NewWorker(redisConnOpt(cfg.Redis), d.sender, cfg.Email.QueueConcurrency, d.metrics)
		g.Go(func() error {
			return worker.Run(gctx)
		})
	}

	return g.Wait()
}
