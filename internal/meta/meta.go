package meta

const (
	// CLIName is the canonical name of the binary, used for config paths,
	// environment variable prefixes, and help text.
	CLIName = "havenctl"

	// OrgName is used when building default URLs and documentation links.
	OrgName = "havenhq"
)
