package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dbseal/encscan/internal/audit"
	"github.com/dbseal/encscan/internal/catalog/mysql"
	"github.com/dbseal/encscan/internal/config"
	"github.com/dbseal/encscan/internal/errs"
	"github.com/dbseal/encscan/internal/filestore"
	mstore "github.com/dbseal/encscan/internal/filestore/minio"
	"github.com/dbseal/encscan/internal/logger"
	"github.com/dbseal/encscan/internal/report"
	"github.com/dbseal/encscan/internal/server"
)

var (
	cfgPath   string
	dbHost    string
	dbPort    int
	dbUser    string
	dbPass    string
	dbName    string
	logLevel  string
	logFormat string

	outputPath string
	mailTo     string
	workers    int

	serveAddr string
)

var rootCmd = &cobra.Command{
	Use:   "encscan",
	Short: "Audit a MySQL database for table and column encryption",
	Long: `encscan inspects a MySQL database's catalog metadata and classifies
every table as encrypted or not: table-level encryption from create
options and the create statement, column-level encryption from column
definitions. It reports only what the catalog shows — it never touches
stored data or key material.`,
	SilenceUsage: true,
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run a one-shot scan and emit the report",
	RunE:  runScan,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve scans over HTTP",
	RunE:  runServe,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "Path to config YAML")
	pf.StringVar(&dbHost, "host", "localhost", "MySQL host")
	pf.IntVar(&dbPort, "port", 3306, "MySQL port")
	pf.StringVar(&dbUser, "user", "", "MySQL username")
	pf.StringVar(&dbPass, "password", "", "MySQL password (prefer ENCSCAN_DB_PASSWORD)")
	pf.StringVar(&dbName, "database", "", "Database name to scan")
	pf.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&logFormat, "log-format", "", "Log format (json, console)")

	scanCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output JSON file path")
	scanCmd.Flags().StringVar(&mailTo, "mail-to", "", "Recipient address for the rendered report")
	scanCmd.Flags().IntVar(&workers, "workers", 0, "Concurrent table scans (default from config)")

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address")

	rootCmd.AddCommand(scanCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "encscan: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig layers CLI flags over the config file and env overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	set := func(name string, apply func()) {
		if cmd.Flags().Changed(name) || cmd.InheritedFlags().Changed(name) {
			apply()
		}
	}
	set("host", func() { cfg.Database.Host = dbHost })
	set("port", func() { cfg.Database.Port = dbPort })
	set("user", func() { cfg.Database.User = dbUser })
	set("password", func() { cfg.Database.Password = dbPass })
	set("database", func() { cfg.Database.Name = dbName })
	set("log-level", func() { cfg.Log.Level = logLevel })
	set("log-format", func() { cfg.Log.Format = logFormat })
	set("output", func() { cfg.Output.Path = outputPath })
	set("workers", func() { cfg.Database.Workers = workers })
	set("mail-to", func() {
		cfg.Mail.To = mailTo
		cfg.Mail.Enabled = true
	})
	set("addr", func() { cfg.Server.Addr = serveAddr })

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// connect opens the single catalog connection for this run.
func connect(ctx context.Context, cfg *config.Config) (*mysql.Driver, error) {
	return mysql.New(ctx, &mysql.Config{
		Host:           cfg.Database.Host,
		Port:           cfg.Database.Port,
		User:           cfg.Database.User,
		Password:       cfg.Database.Password,
		Database:       cfg.Database.Name,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		QueryTimeout:   cfg.Database.QueryTimeout,
	})
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log := logger.New(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: os.Stderr})
	log.Infof("configuration: %s", cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	driver, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer driver.Close()

	scanner := audit.NewScanner(driver, log, cfg.Database.Host, cfg.Database.Name, cfg.Database.Workers)
	rep, err := scanner.Run(ctx)
	if err != nil {
		return err
	}

	report.NewConsole().Summarize(rep)

	// Every output channel below is best-effort: failures are reported to
	// the operator but never change the exit code once the scan succeeded.
	location := persist(rep, cfg, log)
	if cfg.Store.Enabled && location != "" {
		archive(ctx, cfg, location, log)
	}
	if cfg.Mail.Enabled {
		transmit(ctx, cfg, rep, location, log)
	}

	return nil
}

func persist(rep *audit.Report, cfg *config.Config, log *logger.Logger) string {
	w := &report.JSONWriter{}
	location, err := w.Persist(rep, cfg.Output.Path)
	if err != nil {
		log.ErrorWith("failed to persist report", err, nil)
		return ""
	}
	log.Infof("report saved to %s", location)
	return location
}

func archive(ctx context.Context, cfg *config.Config, location string, log *logger.Logger) {
	store, err := mstore.New(ctx, &filestore.Config{
		Endpoint:  cfg.Store.Endpoint,
		AccessKey: cfg.Store.AccessKey,
		SecretKey: cfg.Store.SecretKey,
		UseSSL:    cfg.Store.UseSSL,
		Bucket:    cfg.Store.Bucket,
	})
	if err != nil {
		log.ErrorWith("failed to reach report archive", err, nil)
		return
	}
	defer store.Close()

	f, err := os.Open(location)
	if err != nil {
		log.ErrorWith("cannot reopen persisted report", err, nil)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		log.ErrorWith("cannot stat persisted report", err, nil)
		return
	}

	key := filepath.Base(location)
	uploaded, err := store.PutObject(ctx, cfg.Store.Bucket, key, f, info.Size(), "application/json")
	if err != nil {
		log.ErrorWith("failed to archive report", err, nil)
		return
	}
	log.Infof("report archived to %s", uploaded)
}

func transmit(ctx context.Context, cfg *config.Config, rep *audit.Report, attachment string, log *logger.Logger) {
	doc, err := report.HTML{}.Render(rep)
	if err != nil {
		log.ErrorWith("failed to render report for mail", err, nil)
		return
	}

	if err := report.NewMailer(cfg.Mail).Send(ctx, rep, doc, attachment); err != nil {
		if errs.IsAuthFailed(err) {
			log.ErrorWith("mail delivery failed: credentials rejected", err, nil)
		} else {
			log.ErrorWith("mail delivery failed", err, nil)
		}
		return
	}
	log.Infof("report mailed to %s", cfg.Mail.To)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log := logger.New(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: os.Stderr})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	driver, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer driver.Close()

	scanner := audit.NewScanner(driver, log, cfg.Database.Host, cfg.Database.Name, cfg.Database.Workers)
	return server.New(scanner, driver, log).ListenAndServe(ctx, cfg.Server.Addr)
}
