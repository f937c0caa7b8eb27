// Package directory maps review-platform identities to chat identities.
package directory

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Resolver looks up the chat handle for a GitHub login. A missing mapping is
// expected and non-fatal: the caller skips that person and continues.
type Resolver interface {
	Resolve(login string) (handle string, ok bool)
}

// Directory is a static identity map loaded from a YAML file of the form
// "github-login: slack-handle".
type Directory struct {
	handles map[string]string
}

// New creates a Directory from an in-memory mapping.
func New(handles map[string]string) *Directory {
	if handles == nil {
		handles = make(map[string]string)
	}
	return &Directory{handles: handles}
}

// Load reads the identity map from a YAML file.
func Load(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read identity map: %w", err)
	}

	handles := make(map[string]string)
	if err := yaml.Unmarshal(data, &handles); err != nil {
		return nil, fmt.Errorf("failed to parse identity map: %w", err)
	}
	return New(handles), nil
}

// Resolve returns the chat handle for a login.
func (d *Directory) Resolve(login string) (string, bool) {
	handle, ok := d.handles[login]
	return handle, ok
}

// Len reports how many identities are mapped.
func (d *Directory) Len() int {
	return len(d.handles)
}
