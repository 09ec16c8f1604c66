package verbs

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	Get    = VerbValue("get")
	List   = VerbValue("list")
	Create = VerbValue("create")
	Update = VerbValue("update")
	Delete = VerbValue("delete")
	Apply  = VerbValue("apply")
	Export = VerbValue("export")
	Bulk   = VerbValue("bulk")
	Help   = VerbValue("help")
)

// Empty type to represent the _type_ Verb. Genesis is to support a key in a Context
type VerbKey struct{}

// Verb is a global instance of the VerbKey type
var Verb = VerbKey{}

// Will represent a specific Verb (get, create, update, delete, etc)
type VerbValue string

func (v VerbValue) String() string {
	return string(v)
}

// NoPositionalArgs returns an Args validator that rejects positional
// arguments for commands whose input arrives only via flags.
func NoPositionalArgs(_ *cobra.Command, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected argument %q", args[0])
	}
	return nil
}
