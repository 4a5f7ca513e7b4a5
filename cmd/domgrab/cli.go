package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/domgrab"
	"github.com/fwojciec/domgrab/extract"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Fetcher     domgrab.Fetcher
	Extractor   domgrab.Extractor
	Formatter   domgrab.Formatter
	RuleSets    domgrab.RuleSetService
	Submitter   domgrab.Submitter
	RateLimiter domgrab.DomainLimiter
	RetryDelays []time.Duration

	// XPath and CSS resolvers used by locate.
	XPath   domgrab.PathResolver
	CSS     domgrab.PathResolver
	Locator *extract.Locator
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool   `short:"v" help:"Log progress and unresolved paths to stderr"`
	DB      string `name:"db" env:"DOMGRAB_DB" help:"Rules database path (default ~/.domgrab/domgrab.db)"`

	Extract ExtractCmd `cmd:"" help:"Extract data from pages with a rule set"`
	Locate  LocateCmd  `cmd:"" help:"Print the path and selector of an element"`
	Rules   RulesCmd   `cmd:"" help:"Manage stored rule set templates"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	Sources  []string      `arg:"" help:"Local files, file:// URLs or http(s) URLs"`
	Rules    string        `short:"r" type:"existingfile" xor:"rules" help:"Rule file (YAML or JSON)"`
	Template string        `short:"t" xor:"rules" help:"Stored rule set name; without --rules or --template each URL is matched against stored URL patterns"`
	Format   string        `short:"f" help:"Output format: json, json-array, csv, markdown, raw or xml (default from the rule set, then json)"`
	Out      string        `short:"o" type:"path" help:"Write one file per page into this directory instead of stdout"`
	Backend  string        `env:"DOMGRAB_BACKEND" help:"POST each output to this URL"`
	Static   bool          `help:"Fetch web pages over plain HTTP instead of rendering them in Chrome"`
	Timeout  time.Duration `default:"30s" help:"Per-page fetch timeout"`
	RPS      float64       `name:"rps" default:"1" help:"Requests per second per host (0 disables)"`
}

// LocateCmd is the "locate" subcommand.
type LocateCmd struct {
	Source string `arg:"" help:"Local file, file:// URL or http(s) URL"`
	XPath  string `name:"xpath" xor:"expr" required:"" help:"XPath expression for the element"`
	CSS    string `name:"css" xor:"expr" required:"" help:"CSS selector for the element"`
	JSON   bool   `name:"json" help:"Print the locator as JSON"`
	Static bool   `help:"Fetch web pages over plain HTTP instead of rendering them in Chrome"`
}

// RulesCmd groups the rule set template subcommands.
type RulesCmd struct {
	Add    RulesAddCmd    `cmd:"" help:"Store a rule file as a named template"`
	List   RulesListCmd   `cmd:"" help:"List stored templates"`
	Delete RulesDeleteCmd `cmd:"" help:"Delete a stored template"`
}

// RulesAddCmd is the "rules add" subcommand.
type RulesAddCmd struct {
	Name    string `arg:"" help:"Template name"`
	File    string `arg:"" type:"existingfile" help:"Rule file (YAML or JSON)"`
	Pattern string `short:"p" help:"URL glob, e.g. *.example.com or example.com/docs/**"`
	Force   bool   `short:"f" help:"Replace an existing template with the same name"`
}

// RulesListCmd is the "rules list" subcommand.
type RulesListCmd struct{}

// RulesDeleteCmd is the "rules delete" subcommand.
type RulesDeleteCmd struct {
	Name string `arg:"" help:"Template name"`
}
