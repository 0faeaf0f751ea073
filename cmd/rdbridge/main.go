// Command rdbridge runs the remote-debugging bridge: it buffers debug entry
// snapshots sent by instrumented applications and replays them through an
// interactive console.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"rdbridge/pkg/config"
	"rdbridge/pkg/console"
	"rdbridge/pkg/ingest"
	"rdbridge/pkg/plugins"
	_ "rdbridge/pkg/plugins/gzipp" // built-in plugins
	"rdbridge/pkg/session"
	"rdbridge/pkg/transport"
)

var (
	version = "dev"

	configPath string
	flagPort   int
)

var rootCmd = &cobra.Command{
	Use:   "rdbridge",
	Short: "Remote debugging bridge",
	Long: `rdbridge accepts serialized debug entry snapshots from instrumented
applications over framed TCP (or HTTP POST), buffers them and lets an
operator step through, filter, annotate and persist the captured states.`,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bridge and its interactive console",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("rdbridge %s\n", version)
	},
}

func init() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.SetOutput(os.Stdout)

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "rdbridge.yaml", "path to the config file")
	serveCmd.Flags().IntVarP(&flagPort, "port", "p", 0, "override the TCP entry port")
	rootCmd.AddCommand(serveCmd, versionCmd)
}

func serve() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if flagPort != 0 {
		cfg.Port = flagPort
	}

	// Plugin load failures abort startup; the pipeline order depends on a
	// complete, fixed list.
	regs := make([]plugins.Registration, 0, len(cfg.Plugins))
	for _, spec := range cfg.Plugins {
		reg, err := plugins.Load(spec.Name, spec.Options)
		if err != nil {
			return err
		}
		regs = append(regs, reg)
	}

	host := console.NewStdioHost(os.Stdout)
	sess := session.New(host, session.Options{
		Nick:           cfg.Nick,
		SourceRoot:     cfg.SourceRoot,
		FilenameFormat: cfg.FilenameFormat,
		Apps:           cfg.Apps,
		Clients:        cfg.Clients,
		Friends:        session.ParseFriends(cfg.Friends, cfg.Port),
		Plugins:        regs,
		Counter:        cfg.Counter,
		Paused:         cfg.Paused,
		Debug:          cfg.Debug,
	})
	chain := ingest.New(sess, log.Default())
	engine := console.New(sess, version)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	listener := transport.NewListener(cfg.MaxMessageSize, chain.HandleMessage, log.Default())
	g.Go(func() error {
		return listener.Serve(ctx, cfg.Port)
	})

	if cfg.HTTPPort > 0 {
		httpListener := transport.NewHTTPListener(cfg.MaxMessageSize, chain.HandleMessage, log.Default())
		g.Go(func() error {
			return httpListener.Serve(ctx, cfg.HTTPPort)
		})
	}

	g.Go(func() error {
		runConsole(ctx, engine)
		stop()
		return nil
	})

	log.Printf("rdbridge %s ready, session %s", version, sess.ID)
	return g.Wait()
}

// runConsole feeds stdin lines to the command engine until EOF or shutdown.
func runConsole(ctx context.Context, engine *console.Engine) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			engine.Execute(line)
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
