package config

// Config is the tool configuration. Every field has a default (see Default);
// a YAML file only needs to list the values it overrides.
type Config struct {
	LogFile string `yaml:"log_file"`
	Build   Build  `yaml:"build"`
	Deploy  Deploy `yaml:"deploy"`
	Launch  Launch `yaml:"launch"`
}

// Build holds Gradle invocation settings.
type Build struct {
	MinJavaVersion int    `yaml:"min_java_version"`
	CacheDir       string `yaml:"cache_dir"`
	ArtifactDir    string `yaml:"artifact_dir"`
	ProbeTimeout   string `yaml:"probe_timeout"`
	CleanTimeout   string `yaml:"clean_timeout"`
	BuildTimeout   string `yaml:"build_timeout"`
}

// Deploy holds the git remote and branch pushed to after a build.
type Deploy struct {
	Remote  string `yaml:"remote"`
	Branch  string `yaml:"branch"`
	Timeout string `yaml:"timeout"`
}

// Launch configures the local test instance.
type Launch struct {
	// InstanceDir may start with "~/". Empty means ~/.trivia-test-instance.
	InstanceDir string `yaml:"instance_dir"`
	Username    string `yaml:"username"`
}
