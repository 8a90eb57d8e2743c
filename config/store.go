package config

// Store persists a Config between power cycles
type Store interface {
	Load() (Config, error)
	Save(Config) error
}

// MemoryStore keeps the last saved Config in RAM. It is what the droid uses when there is no
// filesystem to write to
type MemoryStore struct {
	saved *Config
}

// Load returns the saved Config, or the defaults when nothing was saved
func (m *MemoryStore) Load() (Config, error) {
	if m.saved == nil {
		return Default(), nil
	}
	return *m.saved, nil
}

func (m *MemoryStore) Save(c Config) error {
	m.saved = &c
	return nil
}
