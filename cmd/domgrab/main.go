package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/domgrab"
	"github.com/fwojciec/domgrab/batch"
	"github.com/fwojciec/domgrab/etree"
	"github.com/fwojciec/domgrab/extract"
	"github.com/fwojciec/domgrab/fs"
	dgquery "github.com/fwojciec/domgrab/goquery"
	"github.com/fwojciec/domgrab/htmlquery"
	"github.com/fwojciec/domgrab/htmltomarkdown"
	dghttp "github.com/fwojciec/domgrab/http"
	"github.com/fwojciec/domgrab/rod"
	dgslog "github.com/fwojciec/domgrab/slog"
	"github.com/fwojciec/domgrab/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Overridden by --db or DOMGRAB_DB.
	DBPath string

	// SQLite database used by the rule set service.
	DB *sqlite.DB

	// Fetcher replaces the browser and HTTP fetchers for web URLs when set.
	Fetcher domgrab.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("domgrab"),
		kong.Description("Extract structured data from web pages with XPath rules"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'domgrab --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := kongCtx.Command()

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger

	if cli.DB != "" {
		m.DBPath = cli.DB
	}

	// Templates are only needed when no rule file is given.
	needsDB := strings.HasPrefix(cmd, "rules") ||
		(strings.HasPrefix(cmd, "extract") && cli.Extract.Rules == "")
	if needsDB {
		if err := m.openDB(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set DOMGRAB_DB to use a different database path\n")
			return err
		}
		defer m.Close()
		deps.RuleSets = dgslog.NewLoggingRuleSetService(sqlite.NewRuleSetService(m.DB), logger)
	}

	converter := htmltomarkdown.NewConverter()
	xpath := dgslog.NewLoggingResolver(htmlquery.NewResolver(htmlquery.WithConverter(converter)), logger)
	deps.XPath = xpath
	deps.CSS = dgquery.NewSelectorResolver()
	deps.Locator = &extract.Locator{
		Resolver:  htmlquery.NewResolver(),
		Paths:     htmlquery.NewPathGenerator(),
		Selectors: dgquery.NewSelectorGenerator(),
	}
	deps.Extractor = dgslog.NewLoggingExtractor(extract.NewEngine(xpath, logger), logger)
	deps.Formatter = etree.NewFormatter()

	switch {
	case strings.HasPrefix(cmd, "extract"):
		fetcher, err := m.fetcher(cli.Extract.Sources, cli.Extract.Static, cli.Extract.Timeout, logger, stderr)
		if err != nil {
			return err
		}
		defer fetcher.Close()
		deps.Fetcher = fetcher
		deps.RateLimiter = batch.NewDomainLimiter(cli.Extract.RPS)
		if cli.Extract.Backend != "" {
			deps.Submitter = dghttp.NewSubmitter(dghttp.WithTimeout(cli.Extract.Timeout))
		}
	case strings.HasPrefix(cmd, "locate"):
		fetcher, err := m.fetcher([]string{cli.Locate.Source}, cli.Locate.Static, rod.DefaultFetchTimeout, logger, stderr)
		if err != nil {
			return err
		}
		defer fetcher.Close()
		deps.Fetcher = fetcher
	}

	return kongCtx.Run(deps)
}

func (m *Main) openDB() error {
	if m.DBPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(m.DBPath), 0o755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	return nil
}

// fetcher builds the fetcher for sources. Chrome is only started when a
// web URL needs rendering.
func (m *Main) fetcher(sources []string, static bool, timeout time.Duration, logger *slog.Logger, stderr io.Writer) (*SourceFetcher, error) {
	f := &SourceFetcher{Local: fs.NewFileFetcher()}
	switch {
	case m.Fetcher != nil:
		f.Remote = m.Fetcher
	case !anyRemote(sources):
	case static:
		f.Remote = dghttp.NewFetcher(dghttp.WithTimeout(timeout))
	default:
		browser, err := rod.NewFetcher(rod.WithFetchTimeout(timeout))
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed, or use --static")
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		f.Remote = rod.NewLoggingFetcher(browser, logger)
	}
	return f, nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "domgrab.db"
	}
	return filepath.Join(home, ".domgrab", "domgrab.db")
}
