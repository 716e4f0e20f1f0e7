package main

import (
	"os"

	"k8s.io/component-base/cli"

	"github.com/mihai-snyk/subset-optimizer/cmd/subset-optimizer/app"
)

func main() {
	command := app.NewOptimizerCommand()
	code := cli.Run(command)
	os.Exit(code)
}
