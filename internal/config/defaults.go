package config

const (
	defaultProjectDir   = "~/.local/share/poselabel"
	defaultLogDir       = "~/.local/share/poselabel/logs"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
	defaultSkeletonName = "skeleton"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ProjectDir: defaultProjectDir,
			LogDir:     defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Skeleton: Skeleton{
			Name: defaultSkeletonName,
		},
		Export: Export{
			Pretty: true,
		},
	}
}
