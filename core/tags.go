package core

// Marker types are embedded in a target struct to describe the tool and its
// arguments. They carry no data; FromStruct finds them by reflection and
// turns each annotated sub-struct into a Definition on a Registry.

// === TOOL MARKERS ===

// Meta carries `name`, `version` and `desc` tags on the root struct, or the
// argument tags (`short`, `long`, `desc`, ...) inside an argument sub-struct.
type Meta struct{}

// Version reserves the version keys. Without a `version` tag the version
// comes from the build info.
type Version struct{}

// Help reserves the help keys on the root and every sub-command.
type Help struct{}

// === ARGUMENT MARKERS ===

type (
	ShortTag struct{} // -x from the first letter of the field name
	LongTag  struct{} // --name from the lowercased field name
	Required struct{}
	Desc     struct{}
)

// Subcommand marks a sub-struct as a sub-command. Its `name` tag overrides
// the lowercased field name; `desc` and `hidden` are honoured too.
type Subcommand struct{}
