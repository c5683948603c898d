package main

import (
	"fmt"

	"github.com/Veraticus/prdash/internal/certs"
	"github.com/Veraticus/prdash/internal/cli"
	"github.com/Veraticus/prdash/internal/config"
	"github.com/Veraticus/prdash/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const certDir = "$HOME/.config/prdash/certs"

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard lists over HTTP",
		Long: `Serve filtered, sorted and paged negotiation and purchase request lists as
JSON, along with single negotiations and their approval metadata.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer a.Close()

			srv := server.New(a.controller, a.approvals, a.logger)
			if useTLS, _ := cmd.Flags().GetBool("tls"); useTLS {
				hosts, _ := cmd.Flags().GetStringSlice("tls-host")
				store := certs.NewStore(config.ExpandPath(certDir), hosts...)
				cert, err := store.Certificate()
				if err != nil {
					return fmt.Errorf("failed to prepare TLS certificate: %w", err)
				}
				fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatInfo("Serving HTTPS with the certificate at "+store.CertFile()))
				return srv.ListenAndServeTLS(cmd.Context(), a.settings.Server.Addr, cert)
			}
			return srv.ListenAndServe(cmd.Context(), a.settings.Server.Addr)
		},
	}
	cmd.Flags().String("addr", "", "listen address (default from server.addr)")
	cmd.Flags().Bool("tls", false, "serve HTTPS with a self-signed certificate")
	cmd.Flags().StringSlice("tls-host", nil, "names the certificate covers (default localhost, 127.0.0.1, ::1)")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	return cmd
}
