package main

import (
	"github.com/atelier-studio/atelier/cmd/atelier/cmds"
	"github.com/spf13/cobra"
)

func main() {
	cobra.CheckErr(cmds.NewRootCmd().Execute())
}
