package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aaronch12Ch/portafolio-sp/api"
	"github.com/aaronch12Ch/portafolio-sp/assets"
	"github.com/aaronch12Ch/portafolio-sp/client"
	"github.com/aaronch12Ch/portafolio-sp/database"
	"github.com/aaronch12Ch/portafolio-sp/session"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the portfolio landing page and admin API",
	Long: `Serve the public landing page, its JSON feeds and the admin API.

Browser sessions live in memory unless SESSION_STORE=postgres, in which case
they are stored through the DB_* connection settings.
`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	sessions, err := sessionProvider()
	if err != nil {
		return err
	}

	resolver, err := assets.New(cmd.Context(), settings)
	if err != nil {
		return err
	}

	server, err := api.NewServer(api.Dependencies{
		Settings: settings,
		Backend:  client.New(settings),
		Sessions: sessions,
		Assets:   resolver,
	})
	if err != nil {
		return fmt.Errorf("error initializing server: %w", err)
	}

	errChannel := newErrChannel()

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(shutdownTimeout)
	return nil
}

func sessionProvider() (session.Provider, error) {
	switch settings.SessionStore {
	case "", "memory":
		return session.NewMemoryProvider(), nil
	case "postgres":
		db, err := database.Connect(settings.Database)
		if err != nil {
			return nil, err
		}
		currentDB := database.New(db)
		if err := currentDB.Migrate(); err != nil {
			return nil, err
		}
		log.Info().Msg("Browser sessions stored in postgres")
		return currentDB.SessionRepo(), nil
	default:
		return nil, fmt.Errorf("unsupported SESSION_STORE %q", settings.SessionStore)
	}
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
// newErrChannel has room for both senders, the server and the interrupt
// listener, so the one that loses the race still returns.
func newErrChannel() chan error {
	return make(chan error, 2)
}

func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
