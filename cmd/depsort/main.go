package main

import (
	"context"
	"errors"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"

	"github.com/matzehuels/depsort/internal/cli"
	"github.com/matzehuels/depsort/pkg/buildinfo"
)

func main() {
	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()

	// fang overrides root.Version, so the version is passed explicitly.
	err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(buildinfo.String()),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		os.Exit(cli.ExitCode(err))
	}
}
