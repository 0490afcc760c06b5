package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pipecalc/pipecalc/internal/conf"
	"github.com/pipecalc/pipecalc/internal/hydro"
	"github.com/pipecalc/pipecalc/internal/logger"
	"github.com/pipecalc/pipecalc/internal/server"
	"github.com/pipecalc/pipecalc/internal/tables"
	"github.com/pipecalc/pipecalc/internal/version"
)

var serveConfig string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the calculation API server",
	Long: `Run the HTTP and WebSocket API that backs the browser calculators.

All calculators are exposed as JSON endpoints under /v1, plus a
WebSocket at /ws for live recalculation as a form changes. Reference
tables can be overridden from a directory of YAML files and reloaded
on change.

Configuration comes from a YAML file, a .env file and PIPECALC_*
environment variables, in rising priority. Keys:
  server.addr          - listen address (default :8080)
  server.cors_origins  - allowed CORS origins (default *)
  server.rate          - requests per second per client (default 20)
  server.burst         - burst allowance (default 40)
  log.dir              - log directory (default logs)
  tables.dir           - reference table override directory
  tables.watch         - reload tables on file change (default false)

Examples:
  pipecalc serve
  pipecalc serve --config /etc/pipecalc.yaml
  PIPECALC_SERVER_ADDR=:9000 pipecalc serve`,
	Run: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&serveConfig, "config", "c", "", "Configuration file (YAML)")
}

func runServe(cmd *cobra.Command, args []string) {
	if err := conf.InitConf(serveConfig); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	logger.InitLogger("pipecalc", conf.Conf.GetString("log.dir"))
	defer logger.Sync()

	dir := tablesDir
	if dir == "" {
		dir = conf.Conf.GetString("tables.dir")
	}
	ts, err := tables.Load(dir)
	if err != nil {
		logger.Logger.Errorf("load tables: %v", err)
		fmt.Printf("Error: %v\n", err)
		return
	}

	h := server.NewHandler(ts, hydro.SwameeJain)
	r := server.SetupRouter(h)

	if dir != "" && conf.Conf.GetBool("tables.watch") {
		go func() {
			if err := tables.Watch(context.Background(), dir, h.SwapTables); err != nil {
				logger.Logger.Errorf("table watcher stopped: %v", err)
			}
		}()
	}

	addr := conf.Conf.GetString("server.addr")
	logger.Logger.Infof("pipecalc v%s serving on %s", version.Version, addr)
	if err := r.Run(addr); err != nil {
		logger.Logger.Errorf("server stopped: %v", err)
		fmt.Printf("Error: %v\n", err)
	}
}
