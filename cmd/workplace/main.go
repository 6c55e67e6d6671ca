package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/goldenloop/workplace/internal/config"
	"github.com/goldenloop/workplace/internal/logging"
	"github.com/goldenloop/workplace/internal/server"
	"github.com/goldenloop/workplace/internal/store"
	"github.com/goldenloop/workplace/internal/types"
	"github.com/goldenloop/workplace/internal/workplace"
)

var configPath string

func main() {
	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:          "workplace",
		Short:        "Virtual company engine for agent toolbelts",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to config file")
	root.AddCommand(serveCmd(), stateCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the workplace HTTP server and shift scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			st, err := store.Open(cfg.Database.Path)
			if err != nil {
				return err
			}
			defer st.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// The scheduler watches state changes through the service
			// observer, so it is bound after the service exists.
			var sched *workplace.Scheduler
			observer := func(snapshot types.WorkplaceState) {
				if sched != nil {
					sched.Reconcile(snapshot)
				}
			}

			svc, err := workplace.NewService(ctx, st, workplace.WithObserver(observer))
			if err != nil {
				return err
			}
			if cfg.Workday.ShiftScheduler {
				sched = workplace.NewScheduler(svc)
				sched.Reconcile(svc.GetState())
				sched.Start()
				defer sched.Stop()
			}

			logging.Infof("workplace engine ready")
			return server.Run(ctx, cfg.Server.Addr, svc)
		},
	}
}

func stateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Print the current workplace state as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			st, err := store.Open(cfg.Database.Path)
			if err != nil {
				return err
			}
			defer st.Close()

			logging.Disable()
			svc, err := workplace.NewService(cmd.Context(), st)
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(svc.GetState(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}
}
