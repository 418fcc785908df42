package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/matsen/litweb/internal/config"
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8000, "Port to listen on")
	serveCmd.Flags().StringVarP(&serveDir, "dir", "d", "", "Directory to serve (default \"output\")")
}

var (
	servePort int
	serveDir  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the generated site locally",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	dir := serveDir
	if dir == "" {
		root := projectRoot()
		dir = resolveProjectPath(root, loadProjectConfig(root).OutputDir)
	}
	if dir == "" {
		dir = config.DefaultOutputDir
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		exitWithError(ExitNotFound, "output directory not found: %s (run 'lw build' first)", dir)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", servePort),
		Handler: http.FileServer(http.Dir(dir)),
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	if humanOutput {
		fmt.Printf("Serving %s at http://localhost:%d/ (ctrl-c to stop)\n", dir, servePort)
	}
	log.Info().Str("dir", dir).Int("port", servePort).Msg("serving site")

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			exitWithError(ExitError, "server: %v", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}
	return nil
}
