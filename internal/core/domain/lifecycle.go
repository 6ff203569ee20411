package domain

// LifecycleStatus is the shared soft-delete state applied uniformly to
// entities, relationships and organizations. Rows are deactivated, never
// removed; physical removal is a separate privileged purge path.
type LifecycleStatus string

const (
	StatusActive   LifecycleStatus = "active"
	StatusInactive LifecycleStatus = "inactive"
)

// CanDeactivate reports whether the status may move to inactive.
func (s LifecycleStatus) CanDeactivate() bool {
	return s == StatusActive
}

// IsActive reports whether the row is live for normal reads and writes.
func (s LifecycleStatus) IsActive() bool {
	return s == StatusActive
}
