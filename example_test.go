package argot_test

import (
	"fmt"
	"strings"

	"github.com/chriso345/argot"
)

func Example_readme() {
	target := struct {
		argot.Meta    `name:"mytool"`   // Set the name of the CLI tool
		argot.Version `version:"1.2.3"` // Enable automatic version flag
		argot.Help                     // Enable automatic help flags

		Name struct {
			Value      string
			argot.Meta `short:"n" long:"name" desc:"User name"`
		}
		Age struct {
			Value          int
			argot.ShortTag // auto generates -a
			argot.LongTag  // auto generates --age
			argot.Desc     `desc:"Age of the user"`
		}
	}{}

	err := argot.ParseArgs(&target, []string{"mytool", "--name", "Alice", "-a", "30"})
	if err != nil {
		panic(err)
	}

	fmt.Println("Name:", target.Name.Value)
	fmt.Println("Age:", target.Age.Value)
	// Output:
	// Name: Alice
	// Age: 30
}

func Example_simple_cli() {
	target := struct {
		argot.Meta    `name:"example_cli"` // This is the name of the cli command
		argot.Version `version:"1.0.0"`
		argot.Help

		Name struct {
			Value string
		}
	}{}

	err := argot.ParseArgs(&target, []string{"example_cli", "bob"})
	if err != nil {
		panic(err)
	}

	if target.Name.Value != "" {
		fmt.Println("Hello, " + target.Name.Value + "!")
	} else {
		fmt.Println("Hello, World!")
	}
	// Output: Hello, bob!
}

func Example_subcommand() {
	target := struct {
		argot.Meta `name:"app"`

		Serve struct {
			argot.Subcommand `name:"serve"`
			Value            bool

			Port struct {
				Value      int `default:"80"`
				argot.Meta `long:"port"`
			}
		}
	}{}

	err := argot.ParseArgs(&target, []string{"app", "serve", "--port", "8080"})
	if err != nil {
		panic(err)
	}
	fmt.Println("serve:", target.Serve.Value, "port:", target.Serve.Port.Value)
	// Output: serve: true port: 8080
}

func Example_registry() {
	var (
		verbose int
		output  string
		files   []string
	)

	r := argot.New("pack")
	r.Define("v,verbose", argot.Counter(&verbose), argot.WithCardinality(argot.Max(3)))
	r.Define("o,output", argot.Scalar(&output), argot.Formats(argot.TrimSpace))
	r.Positional("files", argot.Slice(&files), argot.Mandatory())

	if _, err := r.Evaluate([]string{"pack", "-vv", "--output= out.tar ", "a.txt", "b.txt"}); err != nil {
		panic(err)
	}
	fmt.Println(verbose, output, strings.Join(files, " "))
	// Output: 2 out.tar a.txt b.txt
}

func Example_constraints() {
	var json, yaml bool
	r := argot.New("export")
	r.Define("json", argot.Scalar(&json))
	r.Define("yaml", argot.Scalar(&yaml))
	r.OneOf("json,yaml")

	_, err := r.Evaluate([]string{"export", "--json", "--yaml"})
	fmt.Println(err)
	// Output: conflicting choice '--json, --yaml': exactly one may be given, got --json, --yaml
}

func Example_evaluateLine() {
	var tags map[string]string
	r := argot.New("tagger")
	r.Define("t,tag", argot.Map(&tags))

	if _, err := r.EvaluateLine(`-t "owner=ops team" --tag env=prod`); err != nil {
		panic(err)
	}
	fmt.Println(tags["owner"], "/", tags["env"])
	// Output: ops team / prod
}

func ExampleBuildVersion() {
	target := struct {
		argot.Meta `name:"mycli" version:"2.3.4"`
	}{}

	version, _ := argot.BuildVersion(&target)
	fmt.Println(version)
	// Output: mycli v2.3.4
}
