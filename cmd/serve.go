/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/13anudhan2005-netizen/language-translator/internal/server"
	"github.com/13anudhan2005-netizen/language-translator/internal/session"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP translation service",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, d, closeStore, err := buildWorkflow()
		if err != nil {
			return err
		}
		defer closeStore()

		addr := cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}

		registry := session.NewRegistry(session.RegistryConfig{
			MaxSessions: cfg.Server.MaxSessions,
			IdleTTL:     cfg.Server.SessionTTL,
			OnEvict:     svc.Forget,
		})

		srv := server.New(svc, registry, server.Config{
			Addr:           addr,
			RateLimit:      cfg.Server.RateLimit,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			Backends:       d.Backends(),
		}, logger.Named("http"))

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Info("starting lingo", zap.String("version", version), zap.Strings("backends", d.Backends()))
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr)")
}
