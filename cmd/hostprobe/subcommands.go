package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	xssh "golang.org/x/crypto/ssh"

	"github.com/hostprobe-dev/hostprobe/internal/collect"
	"github.com/hostprobe-dev/hostprobe/internal/config"
	"github.com/hostprobe-dev/hostprobe/internal/runner"
	"github.com/hostprobe-dev/hostprobe/internal/server"
	"github.com/hostprobe-dev/hostprobe/internal/sshx"
	"github.com/hostprobe-dev/hostprobe/internal/store"
	"github.com/hostprobe-dev/hostprobe/internal/telemetry"
)

// Resolve config and build the collector service with its channel.
func buildService(cmd *cobra.Command) (*collect.Service, *telemetry.Collector, config.Config, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, config.Config{}, err
	}

	var sess runner.Session
	switch cfg.Target.Mode {
	case "local":
		sess = runner.LocalSession{}
	default:
		keyPath := cfg.Target.KeyPath
		if keyPath == "" {
			keyPath = filepath.Join(filepath.Dir(config.DefaultPath()), "ssh", "id_ed25519")
		}
		signer, err := sshx.LoadPrivateKeySigner(keyPath)
		if err != nil {
			return nil, nil, config.Config{}, err
		}
		var hostKey xssh.HostKeyCallback
		if cfg.Target.StrictHostKey {
			hostKey, err = sshx.LoadKnownHostsCallback(cfg.Target.KnownHosts)
			if err != nil {
				return nil, nil, config.Config{}, err
			}
		}
		connectTimeout := time.Duration(cfg.Target.ConnectTimeoutSeconds) * time.Second
		sess = &sshx.Client{
			Addr:           fmt.Sprintf("%s:%d", cfg.Target.Host, cfg.Target.Port),
			User:           cfg.Target.User,
			Signer:         signer,
			HostKey:        hostKey,
			ConnectTimeout: connectTimeout,
			Dialer:         sshx.NetDialer{Timeout: connectTimeout},
		}
	}

	opts := runner.Options{
		Timeout: time.Duration(cfg.Exec.TimeoutSeconds) * time.Second,
		Elevate: !cfg.Exec.NoSudo,
	}
	run := runner.New(sess, opts, log.With().Str("component", "runner").Logger())
	metrics := telemetry.NewCollector(cfg.Telemetry.Enabled)
	svc := collect.NewService(run, metrics, log.With().Str("component", "collect").Logger())
	return svc, metrics, cfg, nil
}

func storePath(cfg config.Config) string {
	if cfg.Store.Path != "" {
		return cfg.Store.Path
	}
	return filepath.Join(filepath.Dir(config.DefaultPath()), "history.db")
}

// Initialize config and probe keypair
func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a starter config and generate the probe SSH keypair",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			if cfgPath == "" {
				cfgPath = config.DefaultPath()
			}
			if err := config.WriteDefault(cfgPath); err != nil {
				return err
			}
			keyDir := filepath.Join(filepath.Dir(cfgPath), "ssh")
			if err := os.MkdirAll(keyDir, 0700); err != nil {
				return fmt.Errorf("mkdir key dir: %w", err)
			}
			keyPath := filepath.Join(keyDir, "id_ed25519")
			if _, err := os.Stat(keyPath); err == nil {
				fmt.Printf("config written to %s (existing key kept)\n", cfgPath)
				return nil
			}
			pub, err := sshx.GenerateEd25519Keypair(keyPath)
			if err != nil {
				return err
			}
			fmt.Printf("config written to %s\n", cfgPath)
			fmt.Printf("authorize this key on the target host:\n%s", pub)
			return nil
		},
	}
}

// List available diagnostics
func newLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List available diagnostic tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, _, err := buildService(cmd)
			if err != nil {
				return err
			}
			for _, t := range svc.Tools() {
				name := t.Name
				if t.TakesDevice {
					name += " [--device]"
				}
				fmt.Printf("%-38s %s\n", name, t.Description)
			}
			return nil
		},
	}
}

// Run a single diagnostic
func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <tool>",
		Short: "Run one diagnostic and print its envelope",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, cfg, err := buildService(cmd)
			if err != nil {
				return err
			}
			device, _ := cmd.Flags().GetString("device")
			env, err := svc.Run(cmd.Context(), args[0], device)
			if err != nil {
				return err
			}
			body, err := env.Encode(cfg.Debug)
			if err != nil {
				return err
			}
			fmt.Println(string(body))
			return nil
		},
	}
	cmd.Flags().String("device", "", "device path for tools that take one (e.g. /dev/sda)")
	return cmd
}

// Serve the diagnostics API
func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the diagnostics HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, metrics, cfg, err := buildService(cmd)
			if err != nil {
				return err
			}
			var audit *store.Store
			if cfg.Store.Enabled {
				audit, err = store.Open(storePath(cfg))
				if err != nil {
					return err
				}
				defer audit.Close()
			}
			srv := server.New(svc, metrics, server.Options{
				Version:   version,
				AuthToken: cfg.Server.AuthToken,
				Pretty:    cfg.Debug,
				Audit:     audit,
			}, log.With().Str("component", "server").Logger())

			addr, _ := cmd.Flags().GetString("addr")
			if addr == "" {
				addr = cfg.Server.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe(addr) }()
			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			}
		},
	}
	cmd.Flags().String("addr", "", "listen address (overrides config)")
	return cmd
}

// Show recent invocations
func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent diagnostic invocations from the audit store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			audit, err := store.Open(storePath(cfg))
			if err != nil {
				return err
			}
			defer audit.Close()
			limit, _ := cmd.Flags().GetInt("limit")
			invs, err := audit.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			for _, inv := range invs {
				fmt.Printf("%s  %-30s code=%d records=%d %dms\n",
					inv.CreatedAt.Format(time.RFC3339), inv.Tool, inv.Code, inv.Records, inv.DurationMS)
			}
			return nil
		},
	}
	cmd.Flags().Int("limit", 20, "number of invocations to show")
	return cmd
}
