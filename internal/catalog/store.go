package catalog

import "context"

// Store is the read-only rule-catalog port. Both implementations return rules
// with their field, requirement, and data-format rows preloaded and their
// predicates already parsed.
type Store interface {
	// VersionByCode resolves a declared version code; sentinel.ErrNotFound
	// when the code is not registered.
	VersionByCode(ctx context.Context, code string) (*MessageVersion, error)

	// ActiveRules returns every active rule scoped to the given version.
	ActiveRules(ctx context.Context, versionID int64) ([]Rule, error)
}
