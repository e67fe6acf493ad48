package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/authd/authd/pkg/authenticator"
	"github.com/authd/authd/pkg/authenticator/local"
	"github.com/authd/authd/pkg/config"
	"github.com/authd/authd/pkg/db"
	"github.com/authd/authd/pkg/server"
	"github.com/authd/authd/pkg/server/endpoints"
	gormstore "github.com/authd/authd/pkg/server/store/gorm"
	"github.com/authd/authd/pkg/token"
)

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

func defaultPortInt() int {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			return p
		}
	}
	return 8000
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the authd application server",
	Long: `Run the authd application server

To run the server requires the DATABASE_URL environment variable. Tokens are
signed with AUTHD_SECRET_KEY; without it a development default is used and a
warning is logged.

By default, database migrations are run on startup. Use --no-migrate to skip.`,
	Run: func(cmd *cobra.Command, args []string) {
		rt, err := config.LoadRuntime()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read environment: %v\n", err)
			os.Exit(1)
		}

		// Validate required environment variables first (fail fast)
		if rt.DatabaseURL == "" {
			fmt.Fprintln(os.Stderr, "DATABASE_URL environment variable is required")
			os.Exit(1)
		}

		secret, isDevDefault := rt.SecretKeyBytes()
		if isDevDefault {
			log.Println("WARNING: AUTHD_SECRET_KEY is not set, using the development default. Do not run this in production.")
		}

		// Run migrations unless --no-migrate is set
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			log.Println("Running database migrations...")
			if err := runMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		// Install the loaded config as the process-wide config. The
		// handlers read it through config.Get on every request, so
		// Reload (file watch or SIGHUP) takes effect without a restart.
		if err := config.Reload(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}
		cfg := config.Get()
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
			os.Exit(1)
		}

		database, err := db.Connect(db.Config{URL: rt.DatabaseURL})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unable to connect to DB: %v\n", err)
			os.Exit(1)
		}

		signer := token.NewSigner(secret, cfg.TokenIssuer, cfg.TokenTTL())

		// Register the password authenticator
		localAuth := local.New(gormstore.NewUsersStore(database))
		authenticator.DefaultRegistry.Register(localAuth)
		_ = authenticator.DefaultRegistry.Enable("local")

		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		s := server.NewServer(database, signer, cfg, authenticator.DefaultRegistry, host, port)

		endpoints.RegisterAll(s)

		// Reload config on file change and on SIGHUP
		stop := make(chan struct{})
		go func() {
			if err := config.Watch(stop, nil); err != nil {
				log.Printf("Config watcher stopped: %v", err)
			}
		}()
		go reloadOnSighup()

		log.Printf("Running server at http://%s:%s...\n", host, port)
		log.Fatal(s.Start())
	},
}

func reloadOnSighup() {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	for range hup {
		if err := config.Reload(); err != nil {
			log.Printf("Config reload failed, keeping previous config: %v", err)
			continue
		}
		log.Println("Reloaded configuration")
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}
