package interfaces

// PermissionOracle answers per-entity permission checks for the acting
// session. Passed explicitly into the guard so it can be exercised with
// synthetic principals in tests instead of an ambient "current user".
type PermissionOracle interface {
	// HasReadPermission reports whether the session may read the entity.
	HasReadPermission(entity string) bool

	// HasCreatePermission reports whether the session may create records
	// of the entity.
	HasCreatePermission(entity string) bool
}
