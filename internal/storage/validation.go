package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Validation errors.
var (
	ErrNilContext    = errors.New("context cannot be nil")
	ErrEmptyString   = errors.New("string parameter cannot be empty")
	ErrNilParameter  = errors.New("parameter cannot be nil")
	ErrInvalidRecord = errors.New("invalid record")
	ErrInvalidTag    = errors.New("invalid checkpoint tag")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateTag rejects tags that could escape the checkpoints directory.
func validateTag(tag string) error {
	if err := validateString(tag, "tag"); err != nil {
		return err
	}
	if strings.ContainsAny(tag, `/\`) || strings.Contains(tag, "..") || strings.HasPrefix(tag, ".") {
		return fmt.Errorf("%w: %q cannot contain path separators", ErrInvalidTag, tag)
	}
	return nil
}

// validateSnapshot checks that every record has an identifier and that
// identifiers are unique within each collection.
func validateSnapshot(snap *Snapshot) error {
	ids := func(collection string, n int, id func(int) string) error {
		seen := make(map[string]struct{}, n)
		for i := range n {
			v := id(i)
			if v == "" {
				return fmt.Errorf("%w: %s[%d] has no id", ErrInvalidRecord, collection, i)
			}
			if _, dup := seen[v]; dup {
				return fmt.Errorf("%w: %s has duplicate id %q", ErrInvalidRecord, collection, v)
			}
			seen[v] = struct{}{}
		}
		return nil
	}

	if err := ids("categories", len(snap.Categories), func(i int) string { return snap.Categories[i].ID }); err != nil {
		return err
	}
	if err := ids("entries", len(snap.Entries), func(i int) string { return snap.Entries[i].ID }); err != nil {
		return err
	}
	if err := ids("budgets", len(snap.Budgets), func(i int) string { return snap.Budgets[i].ID }); err != nil {
		return err
	}
	return ids("alerts", len(snap.Alerts), func(i int) string { return snap.Alerts[i].ID })
}
