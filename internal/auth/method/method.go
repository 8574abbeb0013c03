package method

import (
	"fmt"
	"strings"

	"github.com/tracera/tracera/internal/auth/password"
)

// Name identifies one authentication method. The set is closed and known at
// build time; dispatch goes through the lookup table below rather than any
// open-ended registration.
type Name string

const Basic Name = "basic"

// Method pairs the verify and generate halves of one authentication scheme.
// Generate turns a plaintext secret into its stored form; Verify checks a
// presented secret against the stored form.
type Method struct {
	Verify   func(presented, stored string) bool
	Generate func(secret string) (string, error)
}

var table = map[Name]Method{
	Basic: {
		Verify:   password.Verify,
		Generate: password.Hash,
	},
}

// Lookup resolves a method by name.
func Lookup(name Name) (Method, error) {
	m, ok := table[Name(strings.ToLower(strings.TrimSpace(string(name))))]
	if !ok {
		return Method{}, fmt.Errorf("unknown authentication method %q", name)
	}
	return m, nil
}

// Names lists the supported methods.
func Names() []Name {
	names := make([]Name, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	return names
}
