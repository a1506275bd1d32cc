package main

import (
	"fmt"
	"os"

	"github.com/chriso345/argot"
	"github.com/chriso345/argot/config"
)

type CLIArgs struct {
	argot.Meta    `name:"app"`
	argot.Help
	argot.Version `version:"0.1.0"`
	argot.Desc    `desc:"An example application demonstrating argot features"`

	Serve struct {
		argot.Subcommand `name:"server" desc:"Start the server"`
		Value            bool

		Port struct {
			Value      int `default:"8080" min:"1" max:"65535"`
			argot.Meta `long:"port"`
			argot.Desc `desc:"Port to run the server on"`
		}

		Verbose struct {
			Value      bool
			argot.Meta `short:"v" long:"verbose" desc:"Enable verbose output"`
		}
	}
}

func main() {
	args := &CLIArgs{}

	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	if err := argot.Parse(args, argot.WithConfig(cfg)); err != nil {
		fmt.Fprintln(os.Stderr, "Error parsing arguments:", err)
		os.Exit(1)
	}

	fmt.Printf("Parsed Arguments: %+v\n", args)
}
