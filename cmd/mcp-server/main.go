package main

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"mcp-deployment-service/internal/models"
	"mcp-deployment-service/internal/server"
	"mcp-deployment-service/pkg/api"
	"mcp-deployment-service/pkg/config"
	"mcp-deployment-service/pkg/logging"
	"mcp-deployment-service/pkg/monitor"
	"mcp-deployment-service/pkg/telemetry"
	"mcp-deployment-service/pkg/tools"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = server.ServerVersion

// shutdownTimeout bounds how long telemetry gets to flush on exit
const shutdownTimeout = 5 * time.Second

type options struct {
	logLevel     string
	envFile      string
	strictOutput bool
	otlpEndpoint string
	otlpInsecure bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the CLI and returns the process exit code
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdin, stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "mcp-server",
		Short: "MCP tool server for the deployment platform API",
		Long: "Serves the deployment platform's REST API as MCP tools over stdio.\n" +
			"Reads " + config.EnvAPIURL + " and " + config.EnvAPIToken + " from the environment or an env file.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts, stdin, stdout, stderr)
		},
	}
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.logLevel, "log-level", "INFO", "Logging level (DEBUG, INFO, WARN, ERROR)")
	flags.StringVar(&opts.envFile, "env-file", config.DefaultEnvFile, "Environment file to load before reading configuration")
	flags.BoolVar(&opts.strictOutput, "strict-output", false, "Check every tool result against its output schema (always on at DEBUG)")
	flags.StringVar(&opts.otlpEndpoint, "otlp", "", "OTLP/HTTP endpoint (host:port) for trace export")
	flags.BoolVar(&opts.otlpInsecure, "otlp-insecure", false, "Use plain HTTP for the OTLP exporter")

	rootCmd.AddCommand(newToolsCmd(), newVersionCmd())
	return rootCmd
}

func newToolsCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Print the tool catalog without contacting the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := tools.NewDefaultRegistry(nil, nil)
			if err != nil {
				return err
			}
			return writeCatalog(cmd.OutOrStdout(), server.Catalog(registry.List()), format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format (json, yaml)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the server version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", server.ServerName, version)
		},
	}
}

func writeCatalog(w io.Writer, catalog []models.MCPTool, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(catalog)
	case "yaml", "yml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(catalog); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return fmt.Errorf("unsupported format %q (want json or yaml)", format)
	}
}

func newLoggingManager(level string, w io.Writer) *logging.LoggingManager {
	lm := logging.NewLoggingManagerWithWriter(w)
	lm.SetLogLevel(level)
	lm.SetGlobalContext("service", server.ServerName)
	lm.SetGlobalContext("version", version)
	return lm
}

// runServe wires configuration, backend client, telemetry and registry
// together and serves MCP until stdin closes or ctx is cancelled.
func runServe(ctx context.Context, opts *options, stdin io.Reader, stdout, stderr io.Writer) error {
	lm := newLoggingManager(opts.logLevel, stderr)
	logger := lm.GetLogger("main")

	phaseStart := time.Now()
	cfg, err := config.Load(opts.envFile)
	if err != nil {
		lm.LogStartupSequence("config_load", map[string]interface{}{
			"error": err.Error(),
		}, time.Since(phaseStart), false)
		lm.LogError("main", err, "Invalid configuration", nil)
		return err
	}
	lm.LogStartupSequence("config_load", map[string]interface{}{
		"api_url":  cfg.APIURL,
		"env_file": cfg.EnvFile,
	}, time.Since(phaseStart), true)

	client, err := api.NewClient(cfg.APIURL, cfg.APIToken,
		api.WithLogger(lm.GetLogger("api")),
		api.WithUserAgent(server.ServerName+"/"+version),
	)
	if err != nil {
		lm.LogError("main", err, "Failed to create API client", nil)
		return err
	}

	phaseStart = time.Now()
	tel, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName:    server.ServerName,
		ServiceVersion: version,
		OTLPEndpoint:   opts.otlpEndpoint,
		Insecure:       opts.otlpInsecure,
	})
	if err != nil {
		lm.LogError("main", err, "Failed to set up telemetry", nil)
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("Telemetry shutdown failed")
		}
	}()
	lm.LogStartupSequence("telemetry_init", map[string]interface{}{
		"otlp_enabled": opts.otlpEndpoint != "",
	}, time.Since(phaseStart), true)

	strict := opts.strictOutput || lm.IsDebug()
	registry, err := tools.NewDefaultRegistry(client, lm.GetLogger("tools"),
		tools.WithStrictOutput(strict),
		tools.WithObserver(tel.Observer),
	)
	if err != nil {
		lm.LogError("main", err, "Failed to build tool registry", nil)
		return err
	}
	lm.LogStartupSequence("registry_sealed", map[string]interface{}{
		"tools":         registry.Len(),
		"strict_output": strict,
	}, 0, true)

	if cfg.EnvFile != "" {
		if stopMonitor := watchEnvFile(cfg.EnvFile, lm); stopMonitor != nil {
			defer stopMonitor()
		}
	}

	srv := server.NewMCPServer(registry, lm,
		server.WithServerInfo(server.ServerName, version),
		server.WithMetricsSource(tel.Snapshot),
	)

	err = srv.Serve(ctx, stdin, stdout)
	if stderrors.Is(err, context.Canceled) {
		logger.Info("Received shutdown signal")
		return nil
	}
	return err
}

// watchEnvFile logs changes to the env file. Configuration is fixed for
// the process lifetime, so a change only warrants a restart notice.
func watchEnvFile(path string, lm *logging.LoggingManager) func() {
	logger := lm.GetLogger("file_monitor")

	mon, err := monitor.NewEnvFileMonitor(path, logger)
	if err != nil {
		logger.WithError(err).Warn("Environment file monitoring disabled")
		return nil
	}

	mon.OnChange(func(event models.FileEvent) {
		lm.LogFileSystemEvent(event.Type, event.Path, time.Since(event.Timestamp))
		logger.WithContext("path", event.Path).
			WithContext("event", event.Type).
			Warn("Environment file changed; restart the server to apply it")
	})

	if err := mon.Start(); err != nil {
		logger.WithError(err).Warn("Environment file monitoring disabled")
		_ = mon.Stop()
		return nil
	}

	return func() {
		if err := mon.Stop(); err != nil {
			logger.WithError(err).Warn("Failed to stop environment file monitor")
		}
	}
}
