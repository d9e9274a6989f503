package config

// ApplyEnv exposes applyEnv to tests.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	return c.applyEnv(lookup)
}
