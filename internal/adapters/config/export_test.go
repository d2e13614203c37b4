package config

// SetEnv overrides environment lookups and the home directory of the loader.
func (l *Loader) SetEnv(getenv func(string) string, home string) {
	l.getenv = getenv
	l.homeDir = func() (string, error) { return home, nil }
}

// SetHomeDirErr makes home directory lookups fail with err.
func (l *Loader) SetHomeDirErr(err error) {
	l.homeDir = func() (string, error) { return "", err }
}
