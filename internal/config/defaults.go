package config

const (
	defaultLogDir      = "~/.local/share/gifpress/logs"
	defaultDataDir     = "~/.local/share/gifpress"
	defaultFFmpeg      = "ffmpeg"
	defaultFFprobe     = "ffprobe"
	defaultPreset      = "medium"
	defaultDither      = "bayer"
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"
	defaultHistoryKeep = 500
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:  defaultLogDir,
			DataDir: defaultDataDir,
		},
		Defaults: Defaults{
			Preset: defaultPreset,
			Dither: defaultDither,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		History: History{
			Enabled: true,
			Keep:    defaultHistoryKeep,
		},
	}
}
