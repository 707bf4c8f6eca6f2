// Command fshape groups the formulas of a pre-tokenized corpus by
// structural shape and reports shape frequencies with the shortest example
// formula per shape.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/urfave/cli.v1"

	"github.com/sheetlab/formulatree/corpus"
	"github.com/sheetlab/formulatree/ftree"
)

var version = "dev"

func main() {
	app := cli.NewApp()
	app.Name = "fshape"
	app.Usage = "group spreadsheet formulas by structural shape"
	app.Version = version
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "TOML configuration file",
			Value: "fshape.toml",
		},
		cli.StringFlag{
			Name:  "corpus",
			Usage: "corpus file, overrides the configured path",
		},
		cli.StringFlag{
			Name:  "mode",
			Usage: "rendering mode: verbatim, generalized or relative",
		},
		cli.IntFlag{
			Name:  "top",
			Usage: "report only the N most frequent shapes",
		},
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: "log skipped formulas and decoder diagnostics",
		},
	}
	app.Action = analyze

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func analyze(ctx *cli.Context) error {
	cfg, err := LoadConfig(ctx.String("config"))
	if err != nil {
		return err
	}
	if s := ctx.String("corpus"); s != "" {
		cfg.Corpus = s
	}
	if s := ctx.String("mode"); s != "" {
		cfg.Mode = s
	}
	if n := ctx.Int("top"); n > 0 {
		cfg.Top = n
	}

	mode, err := ftree.ParseMode(cfg.Mode)
	if err != nil {
		return err
	}

	log, err := newLogger(ctx.Bool("verbose"))
	if err != nil {
		return err
	}
	defer log.Sync()

	dec, err := cfg.Decoder(log)
	if err != nil {
		return err
	}

	in, err := os.Open(cfg.Corpus)
	if err != nil {
		return fmt.Errorf("failed to open corpus: %w", err)
	}
	defer in.Close()

	runner := &corpus.Runner{
		Builder: ftree.NewBuilder(mode,
			ftree.WithNameResolver(dec),
			ftree.WithLogger(log)),
		Source: dec,
		Index:  corpus.NewShapeIndex(),
		Log:    log,
	}

	stats, err := runner.Run(in)
	if err != nil {
		return err
	}

	report(runner.Index, cfg.Top, mode)
	fmt.Printf("\n%d formulas, %d skipped, %d distinct shapes\n",
		stats.Built+stats.Skipped, stats.Skipped, runner.Index.Len())
	return nil
}

func report(ix *corpus.ShapeIndex, top int, mode ftree.Mode) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Shape", "Count", "Shortest example"})
	table.SetCaption(true, fmt.Sprintf("mode: %s", mode))

	for _, s := range ix.Top(top) {
		table.Append([]string{s.Simple, strconv.Itoa(s.Count), s.Example})
	}
	table.Render()
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}
