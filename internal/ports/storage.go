package ports

// SessionStore persists the resolution session across process restarts:
// collected params, discovery cache entries, archived runs.
type SessionStore interface {
	Get(key string) (value []byte, exists bool, err error)
	Put(key string, value []byte) error
	Delete(key string) error
	ListByPrefix(prefix string) (map[string][]byte, error)
	DeleteByPrefix(prefix string) (deletedCount int, err error)
	Close() error
}
