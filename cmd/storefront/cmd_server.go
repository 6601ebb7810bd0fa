package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shopfront/storefront/app/routes"
	"github.com/shopfront/storefront/config"
	"github.com/shopfront/storefront/internal/kernel"
	"github.com/shopfront/storefront/internal/server"
	"github.com/shopfront/storefront/pkg/router"
	"github.com/shopfront/storefront/pkg/storage"
)

// storefront serve
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run"},
	Short:   "Start the HTTP server (and gRPC health when GRPC_PORT is set)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := server.Boot(ctx); err != nil {
			return err
		}
		defer server.Shutdown()
		return server.Run(ctx)
	},
}

// storefront route:list
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List every registered route",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		disk := storage.NewLocalDisk(config.StorageLocalRoot(), config.StorageURL())
		r, err := kernel.New(routes.NewServices(disk), disk, nil)
		if err != nil {
			return err
		}
		return writeRoutes(cmd.OutOrStdout(), r.Routes())
	},
}

func writeRoutes(out io.Writer, infos []router.RouteInfo) error {
	if len(infos) == 0 {
		fmt.Fprintln(out, "No routes registered.")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "METHOD\tPATH\tNAME")
	fmt.Fprintln(w, "------\t----\t----")
	for _, ri := range infos {
		fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
	}
	return w.Flush()
}
