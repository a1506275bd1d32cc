package argot

import (
	"os"

	"github.com/chriso345/argot/core"
	"github.com/chriso345/argot/display"
)

// New returns a registry for the program called name whose usage and
// version output is rendered by the display package.
//
// Usage:
//
//	var name string
//	var files []string
//
//	r := argot.New("mytool", argot.WithHelp())
//	r.Define("n,name", argot.Scalar(&name), argot.Mandatory())
//	r.Positional("files", argot.Slice(&files))
//
//	argot.Run(r, os.Args)
func New(name string, opts ...Option) *Registry {
	base := []Option{
		core.WithUsageRenderer(display.Usage),
		core.WithVersionRenderer(display.Version),
	}
	return core.New(name, append(base, opts...)...)
}

// Parse parses command-line arguments into the provided target struct.
//
// The target must be a pointer to a struct where each field represents either
// a CLI argument or a sub-command. Each argument sub-struct holds a `Value`
// field for the parsed value, and may be annotated using struct tags or
// helper types like `ShortTag`, `LongTag`, `Required`, and `Desc`.
//
// If the root embeds `Help`, `-h` and `--help` print the usage and exit.
//
// Usage:
//
//	target := struct {
//		argot.Meta `name:"mytool"`
//		argot.Help
//
//		Name struct {
//			Value      string
//			argot.Meta `short:"n" long:"name" desc:"User name"`
//		}
//
//		Age struct {
//			Value          int `min:"0"`
//			argot.ShortTag // Auto-generates: -a
//			argot.LongTag  // Auto-generates: --age
//			argot.Desc     `desc:"Age of the user"`
//		}
//	}{}
//
//	if err := argot.Parse(&target); err != nil {
//		log.Fatal(err)
//	}
func Parse(target any, opts ...Option) error {
	return ParseArgs(target, os.Args, opts...)
}

// ParseArgs is Parse with an explicit argument vector, program name first.
func ParseArgs(target any, argv []string, opts ...Option) error {
	base := []Option{
		core.WithUsageRenderer(display.Usage),
		core.WithVersionRenderer(display.Version),
	}
	return core.ParseArgs(target, argv, append(base, opts...)...)
}

// Run evaluates argv against r. An error is reported on standard error and
// the process exits with status 1.
func Run(r *Registry, argv []string) *State {
	st, err := r.Evaluate(argv)
	if err != nil {
		display.Report(os.Stderr, err, r.Config().Color)
		osExit(1)
	}
	return st
}

var osExit = os.Exit // Mockable for testing

// BuildHelp generates the usage text for a CLI tool defined by the given
// struct pointer.
//
// Example:
//
//	target := struct {
//		argot.Meta `name:"mytool"`
//
//		Filename struct {
//			Value string
//			argot.Required
//			argot.Desc `desc:"Input file path"`
//		}
//	}{}
//
//	helpText, err := argot.BuildHelp(&target)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(helpText)
var BuildHelp = display.BuildHelp

// BuildVersion returns a formatted version string for the CLI tool defined
// by the provided struct pointer.
//
// Example:
//
//	target := struct {
//		argot.Meta `name:"mytool" version:"1.2.3"`
//	}{}
//
//	version, _ := argot.BuildVersion(&target)
//	fmt.Println(version) // Output: mytool v1.2.3
var BuildVersion = display.BuildVersion
