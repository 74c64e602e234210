// Package cli implements the krishi CLI commands.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"krishimitra/internal/config"
	"krishimitra/internal/logger"
	"krishimitra/internal/service"
)

var (
	configFile string
	language   string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "krishi",
	Short: "Chat with the KrishiMitra agricultural advisor",
	Long:  "Command-line client for the KrishiMitra advisory API: ask questions, diagnose crop photos, check market prices, notifications and government schemes.",
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file path (default: etc/config-dev.yaml)")
	RootCmd.PersistentFlags().StringVarP(&language, "language", "l", "", "Response language (default from config)")
}

// app bundles the services a command needs. A saved session, when present
// and unexpired, is restored so calls are authenticated.
type app struct {
	cfg   *config.Config
	auth  *service.AuthService
	query *service.QueryService
	data  *service.DataService
}

func newApp() *app {
	cfg := config.Load(configFile)

	// Keep stdout clean for command output; logs go to the file only.
	logCfg := cfg.Log
	logCfg.Console = false
	if logCfg.File == "" {
		logCfg.File = filepath.Join(cfg.Client.DataDir, "krishi.log")
	}
	logger.Init(logCfg)

	if language != "" {
		cfg.Client.Language = language
	}

	b := service.NewBackend(cfg.Backend.BaseURL, cfg.Timeout())
	a := &app{
		cfg:   cfg,
		auth:  service.NewAuthService(b),
		query: service.NewQueryService(b, cfg.Client.Language),
		data:  service.NewDataService(b),
	}

	if sess, err := service.LoadSession(a.sessionPath()); err == nil {
		if err := a.auth.Resume(sess); err != nil {
			fmt.Fprintln(os.Stderr, "note: saved session expired, continuing anonymously (run `krishi login`)")
		}
	}
	return a
}

func (a *app) sessionPath() string {
	return filepath.Join(a.cfg.Client.DataDir, "session.json")
}

func (a *app) history() (*service.HistoryService, error) {
	db, err := a.cfg.OpenGormDB("krishi.db")
	if err != nil {
		return nil, err
	}
	return service.NewHistoryService(db)
}

func removeSession(a *app) error {
	err := os.Remove(a.sessionPath())
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
