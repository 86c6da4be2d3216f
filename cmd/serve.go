package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/warna720/TDP003/api"
)

const shutdownTimeout = 30 * time.Second

var errInterrupted = errors.New("interrupted")

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != "" {
				rootOpts.Config.Port = port
			}
			return runServe(cmd, rootOpts)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "port to listen on (default $PORT)")

	return cmd
}

func runServe(cmd *cobra.Command, opts *RootOptions) error {
	portfolio, release, err := opts.openPortfolio(cmd.Context())
	if err != nil {
		return err
	}
	defer release()

	errChannel := make(chan error, 2)

	server := api.NewServer(opts.Config, portfolio)
	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(shutdownTimeout)
	if errors.Is(fatalErr, errInterrupted) || errors.Is(fatalErr, http.ErrServerClosed) {
		return nil
	}
	return fmt.Errorf("serve: %w", fatalErr)
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%w: %s", errInterrupted, <-c)
}
