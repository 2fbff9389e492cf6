package fixture

import (
	"fmt"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// CurrentVersion is written into fixtures that omit a version.
const CurrentVersion = "1"

// supportedVersions accepts every 1.x schema.
var supportedVersions = mustConstraint(">= 1, < 2")

func mustConstraint(c string) *semver.Constraints {
	constraints, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}

	return constraints
}

// CheckVersion returns an error when a fixture's schema version cannot be
// read by this package.
func CheckVersion(version string) error {
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("invalid fixture version %q: %w", version, err)
	}

	if !supportedVersions.Check(v) {
		return fmt.Errorf("unsupported fixture version %q, expected %s.x", version, CurrentVersion)
	}

	return nil
}

// LoadFile loads and parses a YAML fixture file from the given path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file %s: %w", path, err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return f, nil
}

// Parse parses YAML data into a File.
func Parse(data []byte) (*File, error) {
	var f File

	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)

	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture YAML: %w", err)
	}

	applyDefaults(&f)

	return &f, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = CurrentVersion
	}

	for i := range f.Impls {
		impl := &f.Impls[i]

		for j := range impl.Functions {
			fn := &impl.Functions[j]

			for k := range fn.Calls {
				call := &fn.Calls[k]
				call.Callee = strings.TrimSpace(call.Callee)

				if call.Site == "" {
					call.Site = fmt.Sprintf("%s::%s#%d", impl.Name, fn.Name, k)
				}
			}
		}
	}
}
