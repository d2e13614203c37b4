package cache

import "time"

// SetNow overrides the clock used to stamp new entries.
func (s *LocalStore) SetNow(now func() time.Time) {
	s.now = now
}

// SetGetenv overrides environment lookups of the factory.
func (f *Factory) SetGetenv(getenv func(string) string) {
	f.getenv = getenv
}
