// Package cli собирает cobra-команды поверх набора сценариев.
package cli

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"siteE2E/internal/config"
	"siteE2E/internal/database"
	"siteE2E/internal/logger"
	"siteE2E/internal/overlay"
	"siteE2E/internal/suite"
)

// ErrScenariosFailed возвращается командой run, если хотя бы один
// сценарий провален.
var ErrScenariosFailed = errors.New("есть проваленные сценарии")

// Browser - запускаемый браузер. Реализуется *browser.PlaywrightBrowser.
type Browser interface {
	suite.PageOpener
	Launch(ctx context.Context) error
	Close() error
}

// RunLister читает журнал прогонов.
type RunLister interface {
	ListRuns(ctx context.Context, limit, offset int) ([]database.Run, error)
}

type CLI struct {
	cfg      *config.Cfg
	log      *logger.Zap
	browser  Browser
	registry *suite.Registry
	recorder suite.Recorder
	runs     RunLister
	detector overlay.Detector
	fs       afero.Fs
	out      io.Writer
}

type Option func(*CLI)

// WithJournal включает запись прогонов и команду runs.
func WithJournal(rec suite.Recorder, runs RunLister) Option {
	return func(c *CLI) {
		c.recorder = rec
		c.runs = runs
	}
}

func WithDetector(det overlay.Detector) Option {
	return func(c *CLI) {
		c.detector = det
	}
}

func WithRegistry(r *suite.Registry) Option {
	return func(c *CLI) {
		c.registry = r
	}
}

// WithFs подменяет файловую систему скриншотов.
func WithFs(fs afero.Fs) Option {
	return func(c *CLI) {
		c.fs = fs
	}
}

func WithOutput(w io.Writer) Option {
	return func(c *CLI) {
		c.out = w
	}
}

func New(cfg *config.Cfg, log *logger.Zap, br Browser, opts ...Option) *CLI {
	if log == nil {
		log = logger.Nop()
	}
	c := &CLI{
		cfg:      cfg,
		log:      log,
		browser:  br,
		registry: suite.Default(),
		recorder: suite.NopRecorder{},
		fs:       afero.NewOsFs(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Root собирает дерево команд. Каждый вызов возвращает новое дерево.
func (c *CLI) Root() *cobra.Command {
	root := &cobra.Command{
		Use:           "site-e2e",
		Short:         "E2E-проверки корпоративного сайта в реальном браузере",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	if c.out != nil {
		root.SetOut(c.out)
		root.SetErr(c.out)
	}
	root.AddCommand(c.runCmd(), c.listCmd(), c.runsCmd())
	return root
}

func (c *CLI) Execute(ctx context.Context, args ...string) error {
	root := c.Root()
	if args != nil {
		root.SetArgs(args)
	}
	return root.ExecuteContext(ctx)
}
