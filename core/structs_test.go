package core

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriso345/argot/config"
	clierr "github.com/chriso345/argot/errors"
)

func TestParse_ShortAndLongFlags(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"cmd", "--name", "Alice", "-a", "30"}

	cli := struct {
		Meta `name:"mytool"`

		Name struct {
			Value string
			Meta  `short:"n" long:"name" desc:"User name"`
		}

		Age struct {
			Value int
			ShortTag
			LongTag
			Desc `desc:"Age of user"`
		}
	}{}

	err := Parse(&cli)
	require.NoError(t, err)
	assert.Equal(t, "Alice", cli.Name.Value)
	assert.Equal(t, 30, cli.Age.Value)
}

func TestParse_PositionalArgs(t *testing.T) {
	cli := struct {
		Meta `name:"mytool"`

		Name struct {
			Value string
			Required
		}
		Age struct {
			Value int
		}
	}{}

	err := ParseArgs(&cli, []string{"cmd", "Alice", "30"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", cli.Name.Value)
	assert.Equal(t, 30, cli.Age.Value)
}

func TestParse_PositionalAfterDoubleDash(t *testing.T) {
	cli := struct {
		Meta `name:"mytool"`

		Name struct {
			Value string
			Required
		}
		Age struct {
			Value string
		}
	}{}

	err := ParseArgs(&cli, []string{"cmd", "--", "-Alice", "30"})
	require.NoError(t, err)
	assert.Equal(t, "-Alice", cli.Name.Value)
	assert.Equal(t, "30", cli.Age.Value)
}

func TestParse_MissingRequired(t *testing.T) {
	cli := struct {
		Meta `name:"mytool"`

		Name struct {
			Value string
			Required
		}
		Age struct {
			Value string
			LongTag
		}
	}{}

	err := ParseArgs(&cli, []string{"cmd", "--age", "30"})
	e := assertKind(t, err, clierr.MissingMandatoryArgument)
	assert.Equal(t, "name", e.Arg)
}

func TestParse_UnsupportedFieldType(t *testing.T) {
	cli := struct {
		Meta `name:"mytool"`

		Opt struct {
			Value chan int
			LongTag
		}
	}{}

	err := ParseArgs(&cli, []string{"cmd", "--opt", "v"})
	assertKind(t, err, clierr.InvalidDefinition)
}

func TestParse_ArgumentWithoutValueField(t *testing.T) {
	cli := struct {
		Opt struct {
			LongTag
		}
	}{}

	err := ParseArgs(&cli, []string{"cmd"})
	e := assertKind(t, err, clierr.InvalidDefinition)
	assert.Equal(t, "Opt", e.Arg)
}

func TestParse_NotAStructPointer(t *testing.T) {
	cli := struct{}{}
	err := ParseArgs(cli, []string{"cmd"})
	assertKind(t, err, clierr.InvalidDefinition)
}

func TestParse_Defaults(t *testing.T) {
	cli := struct {
		Meta `name:"app"`

		Port struct {
			Value int `default:"8080"`
			Meta  `long:"port"`
		}
		Tags struct {
			Value []string `default:"a,b"`
			Meta  `long:"tags"`
		}
	}{}

	err := ParseArgs(&cli, []string{"app"})
	require.NoError(t, err)
	assert.Equal(t, 8080, cli.Port.Value)
	assert.Equal(t, []string{"a", "b"}, cli.Tags.Value)

	err = ParseArgs(&cli, []string{"app", "--port", "9090", "--tags", "c"})
	require.NoError(t, err)
	assert.Equal(t, 9090, cli.Port.Value)
	assert.Equal(t, []string{"c"}, cli.Tags.Value, "given values replace the default")
}

func TestParse_TagPolicies(t *testing.T) {
	type target struct {
		Level struct {
			Value string `values:"debug,info,warn"`
			Meta  `short:"l" long:"level"`
		}
		Workers struct {
			Value int `min:"1" max:"8"`
			Meta  `short:"w"`
		}
		Files struct {
			Value []string `sep:";" unique:"true" sort:"true"`
			Meta  `short:"f"`
		}
		Old struct {
			Value string
			Meta  `long:"old" deprecated:"true"`
		}
	}

	var cli target
	err := ParseArgs(&cli, []string{"app", "-l", "info", "-w", "8", "-f", "b;a;b", "-f", "c"})
	require.NoError(t, err)
	assert.Equal(t, "info", cli.Level.Value)
	assert.Equal(t, 8, cli.Workers.Value)
	assert.Equal(t, []string{"a", "b", "c"}, cli.Files.Value)

	tests := []struct {
		name string
		argv []string
		kind clierr.Kind
	}{
		{"not allowed", []string{"app", "-l", "trace"}, clierr.ValidationError},
		{"above max", []string{"app", "-w", "9"}, clierr.RangeError},
		{"below min", []string{"app", "-w", "0"}, clierr.RangeError},
		{"deprecated", []string{"app", "--old", "x"}, clierr.DeprecatedArgumentUsed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cli target
			assertKind(t, ParseArgs(&cli, tt.argv), tt.kind)
		})
	}
}

func TestParse_OnlyMinBound(t *testing.T) {
	cli := struct {
		Count struct {
			Value int `min:"1"`
			Meta  `short:"c"`
		}
	}{}

	assertKind(t, ParseArgs(&cli, []string{"app", "-c", "0"}), clierr.UnderflowError)
}

func TestParse_OptionalPointer(t *testing.T) {
	cli := struct {
		Limit struct {
			Value *int
			LongTag
		}
	}{}

	require.NoError(t, ParseArgs(&cli, []string{"app"}))
	assert.Nil(t, cli.Limit.Value)

	require.NoError(t, ParseArgs(&cli, []string{"app", "--limit", "5"}))
	require.NotNil(t, cli.Limit.Value)
	assert.Equal(t, 5, *cli.Limit.Value)
}

func TestParse_Map(t *testing.T) {
	cli := struct {
		Env struct {
			Value map[string]string
			Meta  `short:"e"`
		}
	}{}

	require.NoError(t, ParseArgs(&cli, []string{"app", "-e", "a=1,b=2"}))
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, cli.Env.Value)
}

func TestParse_DefaultsUseConfiguredSeparators(t *testing.T) {
	cfg := config.Default()
	cfg.ListSeparator = ";"
	cfg.KeyValueSeparator = ":"

	type cli struct {
		Env struct {
			Value map[string]string `default:"a:1;b:x=y"`
			Meta  `short:"e"`
		}
		Tags struct {
			Value []string `default:"p,q;r"`
			Meta  `short:"t"`
		}
	}

	var c cli
	require.NoError(t, ParseArgs(&c, []string{"app"}, WithConfig(cfg)))
	assert.Equal(t, map[string]string{"a": "1", "b": "x=y"}, c.Env.Value)
	assert.Equal(t, []string{"p,q", "r"}, c.Tags.Value)

	var given cli
	require.NoError(t, ParseArgs(&given, []string{"app", "-e", "c:3"}, WithConfig(cfg)))
	assert.Equal(t, map[string]string{"c": "3"}, given.Env.Value)
}

func TestParse_InlinePrimitiveFlagLong(t *testing.T) {
	cli := struct {
		Meta `name:"myapp"`

		Menu struct {
			Value    string
			Meta     `long:"menu"`
			MaxItems int `short:"n" long:"max-items"`
		}
	}{}

	err := ParseArgs(&cli, []string{"cmd", "--max-items", "5"})
	require.NoError(t, err)
	assert.Equal(t, 5, cli.Menu.MaxItems)
}

func TestParse_InlinePrimitiveFlagShort(t *testing.T) {
	cli := struct {
		Meta `name:"myapp"`

		Menu struct {
			Value    string
			Meta     `long:"menu"`
			MaxItems int `short:"n" long:"max-items"`
		}
	}{}

	err := ParseArgs(&cli, []string{"cmd", "-n", "7"})
	require.NoError(t, err)
	assert.Equal(t, 7, cli.Menu.MaxItems)
}

func TestParse_InlinePrimitiveDefault(t *testing.T) {
	cli := struct {
		Meta `name:"myapp"`

		Menu struct {
			Value    string
			Meta     `long:"menu"`
			MaxItems int `default:"3"` // no explicit flags
		}
	}{}

	err := ParseArgs(&cli, []string{"cmd"})
	require.NoError(t, err)
	assert.Equal(t, 3, cli.Menu.MaxItems)
}

func TestParse_InlineBoolFlag(t *testing.T) {
	cli := struct {
		Meta `name:"myapp"`

		Menu struct {
			Value  string
			Meta   `long:"menu"`
			DryRun bool `long:"dry-run"`
		}
	}{}

	err := ParseArgs(&cli, []string{"cmd", "--dry-run"})
	require.NoError(t, err)
	assert.True(t, cli.Menu.DryRun)
}

func TestParse_TopLevelInlineFlag(t *testing.T) {
	cli := struct {
		Meta    `name:"myapp"`
		Verbose bool `short:"v"`
		Retries int  `long:"retries" default:"2"`
	}{}

	require.NoError(t, ParseArgs(&cli, []string{"cmd", "-v"}))
	assert.True(t, cli.Verbose)
	assert.Equal(t, 2, cli.Retries)
}

func TestParse_SubcommandWithInlineFlags(t *testing.T) {
	cli := struct {
		Meta `name:"app"`
		Help

		Menu struct {
			Subcommand
			Meta     `name:"menu" desc:"Start in menu mode"`
			Value    bool
			MaxItems int  `short:"n" long:"max-items"`
			DryRun   bool `long:"dry-run"`
		}
	}{}

	err := ParseArgs(&cli, []string{"app", "menu", "--max-items", "9", "--dry-run"})
	require.NoError(t, err)
	assert.True(t, cli.Menu.Value)
	assert.Equal(t, 9, cli.Menu.MaxItems)
	assert.True(t, cli.Menu.DryRun)
}

func TestParse_Subcommands(t *testing.T) {
	type target struct {
		Meta `name:"app"`

		Verbose struct {
			Value bool
			Meta  `short:"v" long:"verbose"`
		}

		Serve struct {
			Subcommand `name:"serve" desc:"Start the server"`
			Value      bool

			Port struct {
				Value int `default:"8080"`
				Meta  `long:"port" desc:"Port to run the server on"`
			}
		}

		Status struct {
			Subcommand
			Value bool
		}
	}

	var cli target
	require.NoError(t, ParseArgs(&cli, []string{"app", "serve", "--port", "9000", "-v"}))
	assert.True(t, cli.Serve.Value)
	assert.False(t, cli.Status.Value)
	assert.Equal(t, 9000, cli.Serve.Port.Value)
	assert.True(t, cli.Verbose.Value)

	cli = target{}
	require.NoError(t, ParseArgs(&cli, []string{"app", "status"}))
	assert.True(t, cli.Status.Value, "the lowercased field name is the default sub-command name")
	assert.Equal(t, 8080, cli.Serve.Port.Value)

	cli = target{}
	err := ParseArgs(&cli, []string{"app", "srve"})
	assertKind(t, err, clierr.UnknownArgument)
	assert.Equal(t, []string{`did you mean "serve"?`}, clierr.Hints(err))
}

func TestParse_NestedSubcommands(t *testing.T) {
	cli := struct {
		Meta `name:"app"`
		Help

		Remote struct {
			Subcommand `name:"remote" desc:"Remote operations"`
			Add        struct {
				Subcommand `name:"add" desc:"Add a remote"`
				Name       struct {
					Value string
					Meta  `long:"name" desc:"Name of the remote"`
				}
			}
		}
	}{}

	err := ParseArgs(&cli, []string{"app", "remote", "add", "--name", "origin"})
	require.NoError(t, err)
	assert.Equal(t, "origin", cli.Remote.Add.Name.Value)
}

func TestFromStruct_Metadata(t *testing.T) {
	cli := struct {
		Meta `name:"tool" version:"1.2.3"`
		Desc `desc:"A test tool"`
		Help
	}{}

	r, err := FromStruct(&cli)
	require.NoError(t, err)
	assert.Equal(t, "tool", r.Name())
	assert.Equal(t, "1.2.3", r.Version())
	assert.Equal(t, "A test tool", r.Description())
	_, ok := r.Lookup("help")
	assert.True(t, ok)
	_, ok = r.Lookup("version")
	assert.True(t, ok)
}

func TestFromStruct_NameFromArgs(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"/usr/local/bin/frobnicate"}

	r, err := FromStruct(&struct{}{})
	require.NoError(t, err)
	assert.Equal(t, "frobnicate", r.Name())
}

func TestFromStruct_ConflictingVersions(t *testing.T) {
	cli := struct {
		Meta    `name:"tool" version:"1.0.0"`
		Version `version:"2.0.0"`
	}{}

	_, err := FromStruct(&cli)
	assertKind(t, err, clierr.InvalidDefinition)
}

func TestFromStruct_VersionMarkerWithoutTag(t *testing.T) {
	cli := struct {
		Meta `name:"tool"`
		Version
	}{}

	r, err := FromStruct(&cli)
	require.NoError(t, err)
	assert.NotEmpty(t, r.Version(), "falls back to the build info or (unknown)")
}

func TestParse_FlagHelpExits(t *testing.T) {
	oldExit := osExit
	defer func() { osExit = oldExit }()
	osExit = func(code int) { panic(code) }

	cli := struct {
		Meta `name:"app"`
		Help

		Name struct {
			Value string
			Meta  `short:"n" long:"name" desc:"Who to greet"`
		}
	}{}

	var out bytes.Buffer
	assert.PanicsWithValue(t, 0, func() {
		_ = ParseArgs(&cli, []string{"app", "--help"}, WithOutput(&out))
	})
	assert.Contains(t, out.String(), "Usage: app [OPTIONS]")
	assert.Contains(t, out.String(), "Who to greet")
}

func TestParse_SubcommandHelpExits(t *testing.T) {
	oldExit := osExit
	defer func() { osExit = oldExit }()
	osExit = func(code int) { panic(code) }

	cli := struct {
		Meta `name:"app"`
		Help

		Serve struct {
			Subcommand `name:"serve" desc:"Start server"`
			Port       struct {
				Value int
				Meta  `long:"port" desc:"Port number"`
			}
		}
	}{}

	var out bytes.Buffer
	assert.PanicsWithValue(t, 0, func() {
		_ = ParseArgs(&cli, []string{"app", "serve", "-h"}, WithOutput(&out))
	})
	assert.Contains(t, out.String(), "Usage: app serve [OPTIONS]")
	assert.Contains(t, out.String(), "Port number")
}

func TestParse_HelpWithoutMarkerIsUnknown(t *testing.T) {
	cli := struct {
		Meta `name:"app"`
	}{}

	err := ParseArgs(&cli, []string{"app", "--help"})
	assertKind(t, err, clierr.UnknownArgument)
}
