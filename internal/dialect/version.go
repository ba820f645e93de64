package dialect

import (
	"fmt"
	"strings"
)

// Version is a supported schema revision.
type Version int

const (
	V2009 Version = iota + 1
	V2014
	V2022
)

// Versions lists every supported revision, oldest first.
var Versions = []Version{V2009, V2014, V2022}

// ParseVersion accepts the literal revision tags "1685-2009", "1685-2014"
// and "1685-2022".
func ParseVersion(s string) (Version, error) {
	for _, v := range Versions {
		if v.String() == strings.TrimSpace(s) {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unknown schema version %q, expected one of 1685-2009, 1685-2014, 1685-2022", s)
}

func (v Version) String() string {
	switch v {
	case V2009:
		return "1685-2009"
	case V2014:
		return "1685-2014"
	case V2022:
		return "1685-2022"
	default:
		return fmt.Sprintf("Version(%d)", int(v))
	}
}

// rules are the per-revision structural differences.
type rules struct {
	prefix         string
	namespace      string
	schemaLocation string
	// registerReset folds field defaults into register/reset/{value,mask}
	// instead of field/resets/reset/value.
	registerReset bool
	// accessPolicies wraps access, modifiedWriteValue and readAction in
	// fieldAccessPolicies/fieldAccessPolicy.
	accessPolicies bool
	// noAccess reports whether "no-access" is in the access vocabulary.
	noAccess bool
	// hexPrefix is the literal prefix for hexadecimal numbers.
	hexPrefix string
}

func rulesFor(v Version) (rules, error) {
	switch v {
	case V2009:
		ns := "http://www.spiritconsortium.org/XMLSchema/SPIRIT/1685-2009"
		return rules{
			prefix:         "spirit",
			namespace:      ns,
			schemaLocation: ns + " " + ns + "/index.xsd",
			registerReset:  true,
			hexPrefix:      "0x",
		}, nil
	case V2014:
		ns := "http://www.accellera.org/XMLSchema/IPXACT/1685-2014"
		return rules{
			prefix:         "ipxact",
			namespace:      ns,
			schemaLocation: ns + " " + ns + "/index.xsd",
			hexPrefix:      "'h",
		}, nil
	case V2022:
		ns := "http://www.accellera.org/XMLSchema/IPXACT/1685-2022"
		return rules{
			prefix:         "ipxact",
			namespace:      ns,
			schemaLocation: ns + " " + ns + "/index.xsd",
			accessPolicies: true,
			noAccess:       true,
			hexPrefix:      "'h",
		}, nil
	default:
		return rules{}, fmt.Errorf("unsupported schema version %s", v)
	}
}
