package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/OCAP2/skirmish/internal/config"
	"github.com/OCAP2/skirmish/internal/dispatcher"
	"github.com/OCAP2/skirmish/internal/handlers"
	"github.com/OCAP2/skirmish/internal/logging"
	"github.com/OCAP2/skirmish/internal/match"
	skotel "github.com/OCAP2/skirmish/internal/otel"
	"github.com/OCAP2/skirmish/internal/scenario"
	"github.com/OCAP2/skirmish/internal/storage"
)

const appName = "skirmish"

func main() {
	configDir := flag.String("config", ".", "directory containing "+config.ConfigFileName)
	scenarioPath := flag.String("scenario", "", "YAML file with opening positions")
	flag.Parse()

	if err := run(*configDir, *scenarioPath); err != nil {
		fmt.Fprintln(os.Stderr, "skirmish:", err)
		os.Exit(1)
	}
}

func run(configDir, scenarioPath string) error {
	sessionStart := time.Now()

	if err := config.Load(configDir); err != nil {
		fmt.Fprintf(os.Stderr, "%v, using defaults\n", err)
	}

	var scn *scenario.Scenario
	if scenarioPath != "" {
		var err error
		if scn, err = scenario.Load(scenarioPath); err != nil {
			return err
		}
	}
	storageCfg := config.GetStorageConfig()
	tag := storageCfg.Tag
	if scn != nil && scn.Name != "" {
		tag = scn.Name
	}

	logPath := logging.LogFilePath(config.GetString("logsDir"), appName, sessionStart)
	logFile, err := logging.OpenLogFile(logPath)
	if err != nil {
		return err
	}
	defer logFile.Close()

	otelCfg := config.GetOTelConfig()
	provider, err := skotel.New(skotel.Config{
		Enabled:      otelCfg.Enabled,
		ServiceName:  otelCfg.ServiceName,
		BatchTimeout: otelCfg.BatchTimeout,
		LogWriter:    logFile,
		Endpoint:     otelCfg.Endpoint,
		Insecure:     otelCfg.Insecure,
	})
	if err != nil {
		return fmt.Errorf("initializing otel: %w", err)
	}
	provider.Install()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = provider.Shutdown(ctx)
	}()

	slogManager := logging.NewSlogManager()
	slogManager.Setup(logFile, config.GetString("logLevel"), provider.LoggerProvider(), func() []slog.Attr {
		return []slog.Attr{slog.String("tag", tag), slog.String("storage", storageCfg.Type)}
	})
	logger := slogManager.Logger()
	logger.Info("Logging to file", "path", logPath, "otel", provider.Enabled())

	dbLog := zerolog.New(logFile).With().Timestamp().Str("component", "storage").Logger()

	if scn != nil {
		logger.Info("Loaded scenario", "path", scenarioPath, "name", scn.Name, "units", len(scn.Units))
	}

	board := config.GetBoardConfig()
	if scn != nil && scn.Rows > 0 && scn.Cols > 0 {
		board.Rows, board.Cols = scn.Rows, scn.Cols
	}
	rules, err := config.GetRules()
	if err != nil {
		return err
	}

	backend, err := storage.NewBackend(storageCfg, logger, dbLog)
	if err != nil {
		return err
	}
	if err := backend.Init(); err != nil {
		return fmt.Errorf("initializing %s storage: %w", storageCfg.Type, err)
	}

	session, err := match.NewSession(match.Options{
		Rows:   board.Rows,
		Cols:   board.Cols,
		Rules:  rules,
		Tag:    tag,
		Logger: logger,
		Meter:  provider.Meter(appName),
	}, backend)
	if err != nil {
		return errors.Join(err, backend.Close())
	}

	if scn != nil {
		if err := scn.Apply(session); err != nil {
			return errors.Join(fmt.Errorf("applying scenario: %w", err), session.Close(), backend.Close())
		}
	}

	d, err := dispatcher.New(logger)
	if err != nil {
		return errors.Join(err, session.Close(), backend.Close())
	}
	var metrics handlers.MetricsSource
	if provider.Enabled() {
		metrics = provider
	}
	handlers.NewService(handlers.Dependencies{
		Session: session,
		Logger:  logger,
		Metrics: metrics,
	}).Register(d)

	loopErr := serve(os.Stdin, os.Stdout, d, session)

	closeErr := errors.Join(session.Close(), backend.Close())
	if exp, ok := backend.(storage.Exportable); ok && exp.ExportedFilePath() != "" {
		fmt.Println("match journal:", filepath.Clean(exp.ExportedFilePath()))
	}
	logger.Info("Session finished", "status", session.Status().String())
	_ = slogManager.Flush(context.Background())
	return errors.Join(loopErr, closeErr)
}
