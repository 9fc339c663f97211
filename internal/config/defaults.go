package config

const (
	defaultDataDir             = "~/.local/share/crate"
	defaultLogDir              = "~/.local/share/crate/logs"
	defaultAssetCacheDir       = "~/.local/share/crate/assets"
	defaultFeedRequestTimeout  = 15
	defaultAssetRequestTimeout = 30
	defaultAssetPacingMillis   = 250
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:       defaultDataDir,
			LogDir:        defaultLogDir,
			AssetCacheDir: defaultAssetCacheDir,
		},
		Feed: Feed{
			RequestTimeout: defaultFeedRequestTimeout,
		},
		Assets: Assets{
			RequestTimeout: defaultAssetRequestTimeout,
			PacingMillis:   defaultAssetPacingMillis,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
