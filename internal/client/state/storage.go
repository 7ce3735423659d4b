package state

// Storage is a string key/value area. Local storage survives restarts;
// session storage is cleared on logout.
type Storage interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
	Clear() error
}
