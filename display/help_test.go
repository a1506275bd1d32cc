package display_test

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriso345/argot/config"
	"github.com/chriso345/argot/core"
	"github.com/chriso345/argot/display"
	clierr "github.com/chriso345/argot/errors"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestBuildHelp_ValidInput(t *testing.T) {
	target := struct {
		core.Meta `name:"mytool"`

		Input struct {
			Value string
			core.Required
			core.Desc `desc:"The input file"`
		}

		Verbose struct {
			Value     bool
			core.Meta `short:"v" long:"verbose" desc:"Enable verbose output"`
		}
	}{}

	help, err := display.BuildHelp(&target)
	require.NoError(t, err)
	assert.Contains(t, help, "Usage: mytool [OPTIONS] INPUT")
	assert.Contains(t, help, "[INPUT]")
	assert.Contains(t, help, "-v, --verbose")
	assert.NotContains(t, help, "--verbose <value>", "flags take no value")
	assert.Contains(t, help, "The input file (required)")
	assert.Contains(t, help, "Enable verbose output")
}

func TestBuildHelp_MissingNameTag(t *testing.T) {
	target := struct {
		core.Meta

		Foo struct {
			Value string
			core.Required
		}
	}{}

	_, err := display.BuildHelp(&target)
	assert.NoError(t, err)
}

func TestBuildHelp_InvalidTarget(t *testing.T) {
	_, err := display.BuildHelp(struct{}{})
	assert.True(t, clierr.Is(err, clierr.InvalidDefinition))
}

func TestBuildHelp_NoOptionsOrArgs(t *testing.T) {
	target := struct {
		core.Meta `name:"emptytool"`
	}{}

	help, err := display.BuildHelp(&target)
	require.NoError(t, err)
	assert.Contains(t, help, "Usage: emptytool")
	assert.NotContains(t, help, "Arguments:")
	assert.NotContains(t, help, "Options:")
}

func TestBuildHelp_VersionAndHelp(t *testing.T) {
	target := struct {
		core.Meta `name:"tool"`

		core.Version
		core.Help
	}{}

	help, err := display.BuildHelp(&target)
	require.NoError(t, err)
	assert.Contains(t, help, "--version")
	assert.Contains(t, help, "-h, --help")
}

func TestBuildHelp_DefaultsAndChecks(t *testing.T) {
	target := struct {
		core.Meta `name:"server"`

		Port struct {
			Value     int `default:"8080" min:"1" max:"65535"`
			core.Meta `short:"p" long:"port" desc:"Port to listen on"`
		}
		Level struct {
			Value     string `values:"debug,info"`
			core.Meta `long:"level"`
		}
	}{}

	help, err := display.BuildHelp(&target)
	require.NoError(t, err)
	assert.Contains(t, help, "-p, --port <value>")
	assert.Contains(t, help, "Port to listen on (default: 8080) (in [1, 65535])")
	assert.Contains(t, help, "(one of debug, info)")
}

func TestOptionsAlignment(t *testing.T) {
	target := struct {
		core.Meta `name:"alignmenttool"`

		Config struct {
			Value     string
			core.Meta `short:"c" long:"config" desc:"Path to config file"`
		}
		Debug struct {
			Value     bool
			core.Meta `short:"d" long:"debug" desc:"Enable debug mode"`
		}
	}{}

	help, err := display.BuildHelp(&target)
	require.NoError(t, err)

	lines := strings.Split(help, "\n")
	optionLines := filterLinesContaining(lines, "--config", "--debug")
	require.Len(t, optionLines, 2)
	pIndex := strings.Index(optionLines[0], "Path")
	eIndex := strings.Index(optionLines[1], "Enable")
	assert.Equal(t, pIndex, eIndex)
}

func TestBuildHelp_Subcommands(t *testing.T) {
	target := struct {
		core.Meta `name:"subcmdtool"`

		Start struct {
			core.Subcommand `name:"start" desc:"Start the service"`
		}

		Stop struct {
			core.Subcommand `name:"stop" desc:"Stop the service"`
		}

		Secret struct {
			core.Subcommand `name:"secret" hidden:"true"`
		}
	}{}

	help, err := display.BuildHelp(&target)
	require.NoError(t, err)
	assert.Contains(t, help, "Usage: subcmdtool <COMMAND>")
	assert.Contains(t, help, "Subcommands:")
	assert.Contains(t, help, "Start the service")
	assert.Contains(t, help, "Stop the service")
	assert.NotContains(t, help, "secret")
}

func TestUsage_GroupsAndConstraints(t *testing.T) {
	cfg := config.Default()
	cfg.Color = false
	r := core.New("net", core.WithConfig(cfg))

	var host string
	var verbose, quiet bool
	g, err := r.Group("c,connect", core.Usage("connection settings"))
	require.NoError(t, err)
	_, err = g.Define("H,host", core.Scalar(&host), core.Usage("remote host"))
	require.NoError(t, err)
	_, err = r.Define("v,verbose", core.Scalar(&verbose), core.Inversion())
	require.NoError(t, err)
	_, err = r.Define("q,quiet", core.Scalar(&quiet))
	require.NoError(t, err)
	require.NoError(t, r.OneOf("verbose,quiet"))

	usage := display.Usage(r)
	lines := strings.Split(usage, "\n")

	group := filterLinesContaining(lines, "--connect")
	member := filterLinesContaining(lines, "--host")
	require.Len(t, group, 1)
	require.Len(t, member, 1)
	assert.Equal(t, strings.Index(group[0], "-c")+2, strings.Index(member[0], "-H"), "group members are indented")
	assert.Contains(t, usage, "(negatable with !)")
	assert.Contains(t, usage, "Constraints:")
}

func TestSubcommandUsage(t *testing.T) {
	cfg := config.Default()
	cfg.Color = false
	r := core.New("app", core.WithConfig(cfg))

	remote, err := r.Subcommand("remote", nil, core.Usage("Remote operations"))
	require.NoError(t, err)
	add, err := remote.Subcommand("add", nil, core.Usage("Add a remote"))
	require.NoError(t, err)
	var name string
	_, err = add.Define("name", core.Scalar(&name), core.Usage("Name of the remote"))
	require.NoError(t, err)

	usage, err := display.SubcommandUsage(r, "remote", "add")
	require.NoError(t, err)
	assert.Contains(t, usage, "Usage: app remote add [OPTIONS]")
	assert.Contains(t, usage, "Add a remote")
	assert.Contains(t, usage, "--name <value>")

	_, err = display.SubcommandUsage(r, "remot")
	assert.True(t, clierr.Is(err, clierr.UnknownArgument))
	assert.Equal(t, []string{`did you mean "remote"?`}, clierr.Hints(err))
}

func TestVersion(t *testing.T) {
	assert.Equal(t, "mycli v2.3.4", display.Version("mycli", "2.3.4"))
	assert.Equal(t, "mycli v2.3.4", display.Version("mycli", "v2.3.4"))
	assert.Equal(t, "v1.0.0", display.Version("", "1.0.0"))
}

func TestBuildVersion(t *testing.T) {
	target := struct {
		core.Meta `name:"mycli" version:"2.3.4"`
	}{}

	version, err := display.BuildVersion(&target)
	require.NoError(t, err)
	assert.Equal(t, "mycli v2.3.4", version)
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	display.Report(&buf, clierr.NewUnknownArgument("--verbse", "--verbose"), false)
	assert.Equal(t, "error: unknown argument '--verbse'\n  hint: did you mean \"--verbose\"?\n", buf.String())

	buf.Reset()
	display.Report(&buf, clierr.NewDuplicateKey("n"), false)
	assert.True(t, strings.HasPrefix(buf.String(), "definition error: "))

	buf.Reset()
	display.Report(&buf, nil, false)
	assert.Empty(t, buf.String())
}

func filterLinesContaining(lines []string, substrs ...string) []string {
	var out []string
	for _, line := range lines {
		for _, s := range substrs {
			if strings.Contains(line, s) {
				out = append(out, line)
				break
			}
		}
	}
	return out
}
