package problemset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/mod/semver"
)

var (
	// ErrUnsupportedVersion is returned for files whose format version is
	// not valid semver or has a major version other than FormatMajor.
	ErrUnsupportedVersion = errors.New("unsupported problem set version")

	// ErrDuplicateID is returned when two problems share an id.
	ErrDuplicateID = errors.New("duplicate problem id")
)

var validate = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Load reads and validates the problem set at path.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read problem set: %w", err)
	}
	set, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// Parse decodes and validates a problem set. Validation runs the JSON
// schema, struct tags, the format version and then DefaultValidators on
// every problem, stopping at the first failure.
func Parse(data []byte) (*Set, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	schema, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var set Set
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("decode problem set: %w", err)
	}
	if err := validate.Struct(&set); err != nil {
		return nil, fmt.Errorf("invalid problem set: %w", err)
	}
	if err := checkVersion(set.Version); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(set.Problems))
	for i := range set.Problems {
		p := &set.Problems[i]
		if seen[p.ID] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, p.ID)
		}
		seen[p.ID] = true

		for _, v := range DefaultValidators() {
			if verr := v.Validate(p); verr != nil {
				return nil, verr
			}
		}
	}
	return &set, nil
}

func checkVersion(v string) error {
	if !semver.IsValid(v) {
		return fmt.Errorf("%w: %q is not a semantic version", ErrUnsupportedVersion, v)
	}
	if major := semver.Major(v); major != FormatMajor {
		return fmt.Errorf("%w: %s (want %s.x.y)", ErrUnsupportedVersion, v, FormatMajor)
	}
	return nil
}
