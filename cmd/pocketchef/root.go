package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/hammamikhairi/pocketchef/internal/api"
	"github.com/hammamikhairi/pocketchef/internal/chime"
	"github.com/hammamikhairi/pocketchef/internal/config"
	"github.com/hammamikhairi/pocketchef/internal/conversation"
	"github.com/hammamikhairi/pocketchef/internal/display"
	"github.com/hammamikhairi/pocketchef/internal/domain"
	"github.com/hammamikhairi/pocketchef/internal/engine"
	"github.com/hammamikhairi/pocketchef/internal/logger"
	"github.com/hammamikhairi/pocketchef/internal/recipe"
	"github.com/hammamikhairi/pocketchef/internal/session"
	"github.com/hammamikhairi/pocketchef/internal/storage"
)

// flags holds command-line overrides for the loaded config.
type flags struct {
	configPath    string
	apiURL        string
	logLevel      string
	logFile       string
	favoritesMode string
	timeout       time.Duration
	chime         bool
	plain         bool
}

func newRootCmd() *cobra.Command {
	var f flags

	root := &cobra.Command{
		Use:           "pocketchef",
		Short:         "Browse, share and rate recipes from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInteractive(cmd, f)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "config file (default ./pocketchef.yaml)")
	pf.StringVar(&f.apiURL, "api-url", "", "recipe server base URL")
	pf.StringVar(&f.logLevel, "log-level", "", "log level: off, normal, verbose")
	pf.StringVar(&f.logFile, "log-file", "", "file to write logs to (use \"stderr\" to log to console)")
	pf.StringVar(&f.favoritesMode, "favorites-mode", "", "where favorites live: server or local")
	pf.DurationVar(&f.timeout, "timeout", 0, "HTTP request timeout")

	root.Flags().BoolVar(&f.chime, "chime", false, "play a sound on errors")
	root.Flags().BoolVar(&f.plain, "plain", false, "line mode without the full-screen UI")

	root.AddCommand(newRecipesCmd(&f), newLoginCmd(&f), newLogoutCmd(&f))
	return root
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command, f flags) (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return cfg, err
	}
	if f.apiURL != "" {
		cfg.APIURL = f.apiURL
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	if f.logFile != "" {
		cfg.LogFile = f.logFile
	}
	if f.favoritesMode != "" {
		cfg.FavoritesMode = f.favoritesMode
	}
	if f.timeout > 0 {
		cfg.HTTPTimeout = f.timeout
	}
	if cmd.Flags().Changed("chime") {
		cfg.Chime = f.chime
	}
	return cfg, cfg.Validate()
}

// openLog directs logs to a file so the interactive screen stays clean.
// The returned closer is never nil.
func openLog(cfg config.Config) (*logger.Logger, io.Closer, error) {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	var out io.Writer = os.Stderr
	var closer io.Closer = io.NopCloser(nil)
	if cfg.LogFile != "" && cfg.LogFile != "stderr" {
		if dir := filepath.Dir(cfg.LogFile); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("creating log dir: %w", err)
			}
		}
		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", cfg.LogFile, err)
		} else {
			out, closer = file, file
		}
	}
	return logger.New(level, out), closer, nil
}

// deps is everything a command needs to talk to the server.
type deps struct {
	cfg     config.Config
	log     *logger.Logger
	api     *api.Client
	store   *storage.BoltStore
	session *session.Session
	recipes *recipe.Store
	closers []io.Closer
}

func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i].Close()
	}
}

// wire builds the shared dependencies. Call Close when done.
func wire(cmd *cobra.Command, f flags) (*deps, error) {
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return nil, err
	}
	log, logCloser, err := openLog(cfg)
	if err != nil {
		return nil, err
	}
	d := &deps{cfg: cfg, log: log, closers: []io.Closer{logCloser}}

	store, err := storage.OpenBolt(cfg.StorePath(), log.Named("storage"))
	if err != nil {
		d.Close()
		return nil, err
	}
	d.store = store
	d.closers = append(d.closers, store)

	d.api = api.New(cfg.APIURL, log.Named("api"), api.WithTimeout(cfg.HTTPTimeout))

	var opts []session.Option
	if cfg.FavoritesMode == config.FavoritesLocal {
		opts = append(opts, session.WithLocalFavorites())
	}
	d.session = session.New(d.api, store, log.Named("session"), opts...)
	d.recipes = recipe.NewStore(d.api, log.Named("recipes"))

	log.Info("pocketchef starting (api=%s, favorites=%s)", cfg.APIURL, cfg.FavoritesMode)
	return d, nil
}

// withChime wraps n with an audible cue when enabled and audio works.
func withChime(n domain.Notifier, d *deps) domain.Notifier {
	if !d.cfg.Chime {
		return n
	}
	player, err := chime.NewPlayer(d.log.Named("chime"))
	if err != nil {
		d.log.Error("audio init failed, chime disabled: %v", err)
		return n
	}
	return chime.NewNotifier(n, player, 0.4, d.log.Named("chime"))
}

func runInteractive(cmd *cobra.Command, f flags) error {
	d, err := wire(cmd, f)
	if err != nil {
		return err
	}
	defer d.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	parser := conversation.NewKeywordParser(d.log.Named("parser"))

	if f.plain || !isatty.IsTerminal(os.Stdout.Fd()) {
		return runPlain(ctx, d, parser)
	}

	var eng *engine.Engine
	ui := display.NewUI(func() engine.Status { return eng.Status() })
	eng = engine.New(d.api, d.session, d.recipes, d.log.Named("engine"),
		engine.WithRenderer(ui),
		engine.WithNotifier(withChime(ui, d)),
		engine.WithShare(d.cfg.APIURL, display.CopyToClipboard),
	)

	app := &cliApp{
		engine:  eng,
		parser:  parser,
		out:     ui,
		input:   ui.InputChan(),
		confirm: conversation.NewLineConfirmer(ui.Printf, ui.InputChan()),
		log:     d.log,
	}

	fmt.Println(display.RenderBanner())
	fmt.Println(display.BannerStyle.Render("  Type 'help' for commands, 'quit' to exit."))
	fmt.Println()

	go func() {
		ui.WaitReady()
		eng.Start(ctx)
		app.run(ctx)
		ui.Quit()
	}()

	// Bubble Tea owns the terminal until quit.
	if err := ui.Run(); err != nil {
		d.log.Error("display: %v", err)
		return err
	}
	return nil
}

// runPlain reads commands line by line from stdin.
func runPlain(ctx context.Context, d *deps, parser domain.IntentParser) error {
	out := newWriterPrinter(os.Stdout)
	eng := engine.New(d.api, d.session, d.recipes, d.log.Named("engine"),
		engine.WithRenderer(display.NewPlain(os.Stdout, 0)),
		engine.WithNotifier(withChime(conversation.NewWriterNotifier(d.log, os.Stdout), d)),
		engine.WithShare(d.cfg.APIURL, display.CopyToClipboard),
	)

	lines := scanLines(ctx, os.Stdin)
	app := &cliApp{
		engine:  eng,
		parser:  parser,
		out:     out,
		input:   lines,
		confirm: conversation.NewLineConfirmer(out.Printf, lines),
		log:     d.log,
	}

	eng.Start(ctx)
	app.run(ctx)
	return nil
}
