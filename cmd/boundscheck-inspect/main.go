// Command boundscheck-inspect is a demo/integration-test adapter around
// package boundscheck: it loads a fixture-described procedure, runs
// Analyze, and prints whatever diagnostics come back. It is sample
// host-integration code, not the analyzer's interface — the analyzer
// itself remains a library with a single function-level entry point and
// no CLI of its own.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/valuerange/boundscheck"
	"github.com/valuerange/boundscheck/config"
	"github.com/valuerange/boundscheck/internal/fixture"
	"github.com/valuerange/boundscheck/report"
)

func main() {
	app := cli.NewApp()
	app.Name = "boundscheck-inspect"
	app.Usage = "run the bounds-check analyzer over a fixture-described procedure"
	app.Flags = []cli.Flag{
		cli.BoolFlag{Name: "debug", Usage: "enable debug logging"},
		cli.BoolFlag{Name: "color", Usage: "colorize diagnostic output"},
		cli.StringFlag{Name: "config", Value: "", Usage: "directory to load boundscheck.conf from (default: cwd)"},
	}
	app.ArgsUsage = "<fixture.yaml>"
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.Bool("debug") {
		logrus.SetLevel(logrus.DebugLevel)
	}
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one fixture path, got %d", c.NArg())
	}
	path := c.Args().Get(0)

	dir := c.String("config")
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		dir = wd
	}
	conf, err := config.Load(dir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if c.Bool("color") {
		conf.Report.Color = true
	}

	proc, err := fixture.Load(path)
	if err != nil {
		return fmt.Errorf("loading fixture: %w", err)
	}

	diags, err := boundscheck.Analyze(proc, conf)
	if err != nil {
		return fmt.Errorf("analyzing %s: %w", proc.Name, err)
	}

	if err := report.Print(os.Stdout, diags, conf.Report.Color); err != nil {
		return err
	}
	return report.Summary(os.Stdout, diags)
}
