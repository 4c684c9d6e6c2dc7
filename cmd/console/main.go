package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httpapi "identity-console/internal/api/http"
	"identity-console/internal/config"
	"identity-console/internal/jobs"
	"identity-console/internal/logger"
	"identity-console/internal/repository/sqlstore"
	"identity-console/internal/scheduler"
	"identity-console/internal/service"
)

// version is set by ldflags at build time.
var version = "dev"

const directoryDialTimeout = 10 * time.Second

// app holds the wired-up console: the store (which the caller must close)
// and every service.
type app struct {
	cfg      *config.Config
	store    *sqlstore.Store
	services httpapi.Services
	workflow service.WorkflowService
	backup   service.BackupService
	audit    service.AuditService
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		logger.Warn("Failed to close store", "error", err)
	}
}

// buildApp loads configuration, connects the store, and constructs every
// service in dependency order.
func buildApp(ctx context.Context, configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)

	store, err := sqlstore.Open(ctx, cfg.Database.Driver, cfg.DSN())
	if err != nil {
		return nil, err
	}
	logger.Info("Database connection established", "driver", cfg.Database.Driver)

	auditSvc := service.NewAuditService(store.AuditRepository)
	syncRecorder := service.NewSyncRecorder(store.SyncRecordRepository)
	settingsSvc := service.NewSettingsService(store.SettingsRepository, auditSvc)

	var emailSvc service.EmailService
	if cfg.Email.SendGridAPIKey != "" {
		emailSvc = service.NewSendGridEmailService(cfg.Email.SendGridAPIKey, cfg.Email.FromEmail, cfg.Email.FromName)
		logger.Info("Decision notifications enabled", "from", cfg.Email.FromEmail)
	} else {
		emailSvc = service.NewNoopEmailService()
		logger.Info("Decision notifications disabled (no SendGrid API key)")
	}

	directory := service.NewLDAPProvisioner(directoryDialTimeout)
	identitySvc := service.NewIdentityService(store.IdentityRepository, settingsSvc, directory, auditSvc, syncRecorder)
	requestSvc := service.NewAccessRequestService(store.AccessRequestRepository, identitySvc, emailSvc, auditSvc, syncRecorder)
	groupSvc := service.NewGroupService(store.GroupRepository, auditSvc)
	workflowSvc := service.NewWorkflowService(time.Duration(cfg.Workflow.TimeoutSeconds)*time.Second, settingsSvc, identitySvc, auditSvc)
	backupSvc := service.NewBackupService(store.AccessRequestRepository, store.IdentityRepository, store.SyncRecordRepository, store.SettingsRepository, auditSvc)

	return &app{
		cfg:   cfg,
		store: store,
		services: httpapi.Services{
			Requests:   requestSvc,
			Identities: identitySvc,
			Groups:     groupSvc,
			Settings:   settingsSvc,
			Workflow:   workflowSvc,
			Backup:     backupSvc,
			Audit:      auditSvc,
		},
		workflow: workflowSvc,
		backup:   backupSvc,
		audit:    auditSvc,
	}, nil
}

func runServe(configPath string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := buildApp(ctx, configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	logger.Info("Starting identity console", "version", version, "address", a.cfg.GetServerAddress())

	if err := a.services.Groups.SeedDefaults(ctx); err != nil {
		logger.Warn("Failed to seed default groups", "error", err)
	}

	var sched *scheduler.Scheduler
	if a.cfg.Scheduler.Enabled {
		runner := jobs.NewJobRunner(&jobs.Services{
			Workflow: a.workflow,
			Audit:    a.audit,
		}, a.cfg)
		sched = scheduler.NewScheduler(runner)
		sched.Start()
		defer sched.Stop()
	}

	srv := &http.Server{
		Addr:         a.cfg.GetServerAddress(),
		Handler:      httpapi.NewRouter(a.services),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

func runExport(configPath, format, outPath string) error {
	ctx := context.Background()

	a, err := buildApp(ctx, configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	data, err := a.backup.Export(ctx, format)
	if err != nil {
		return err
	}
	if outPath == "" || outPath == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(outPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	fmt.Printf("Backup written to %s\n", outPath)
	return nil
}

func runImport(configPath, inPath string) error {
	ctx := context.Background()

	a, err := buildApp(ctx, configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	data, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}
	if err := a.backup.Import(ctx, data); err != nil {
		return err
	}
	fmt.Printf("Backup %s imported\n", inPath)
	return nil
}

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "console",
		Short:         "access-request and identity management console",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/config.yaml", "path to configuration file")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	}

	var exportFormat, exportOut string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "export all records as a backup file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(configPath, exportFormat, exportOut)
		},
	}
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "backup format: json or xml")
	exportCmd.Flags().StringVar(&exportOut, "out", "-", "output file (- for stdout)")

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "restore records from a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(configPath, args[0])
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "print the console version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("console %s\n", version)
		},
	}

	rootCmd.AddCommand(serveCmd, exportCmd, importCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "console: %s\n", err)
		os.Exit(1)
	}
}
