// Package storage persists the per-review assignee sets.
package storage

import (
	"context"
	"strings"
)

// UpdateFunc computes the next serialized value for a key from the current
// one. It returns the new value and whether it should be written; returning
// an error aborts the update without writing.
type UpdateFunc func(current string, exists bool) (next string, write bool, err error)

// Store is the persistence contract for review assignee records. Values are
// pipe-delimited login lists, kept compatible with the original key-value
// layout. Update is the atomic get-then-set primitive: implementations must
// serialize concurrent updates for the same key.
type Store interface {
	Get(ctx context.Context, key string) (value string, exists bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Update(ctx context.Context, key string, fn UpdateFunc) error

	// All returns a snapshot of every stored record, keyed by review key.
	All(ctx context.Context) (map[string]string, error)
}

// EncodeAssignees serializes an assignee set into the pipe-delimited wire
// format. An empty set encodes to the empty string.
func EncodeAssignees(assignees []string) string {
	return strings.Join(assignees, "|")
}

// DecodeAssignees parses a pipe-delimited value into an assignee list,
// dropping empty segments and duplicates while preserving first-seen order.
func DecodeAssignees(value string) []string {
	if value == "" {
		return nil
	}

	var assignees []string
	seen := make(map[string]struct{})
	for _, login := range strings.Split(value, "|") {
		if login == "" {
			continue
		}
		if _, ok := seen[login]; ok {
			continue
		}
		seen[login] = struct{}{}
		assignees = append(assignees, login)
	}
	return assignees
}
