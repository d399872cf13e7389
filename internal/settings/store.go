package settings

// Store is the persistent key/value storage behind window settings. Values
// are grouped by the derived window key and addressed by field name, so a
// missing or corrupt field never affects its neighbours.
type Store interface {
	// Get returns the stored value and whether it was present.
	Get(key, field string) (string, bool, error)
	// Set writes one field under key, replacing any previous value.
	Set(key, field, value string) error
}
