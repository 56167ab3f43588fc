package config

const (
	ScopeCLIExit       = "cli_exit"
	ScopeAlbumImported = "album_imported"

	ActionMove   = "move"
	ActionCopy   = "copy"
	ActionDryRun = "dry-run"

	defaultScope           = ScopeCLIExit
	defaultAction          = ActionMove
	defaultLibraryPath     = "~/.config/beets/library.db"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultDebounceSeconds = 5
	defaultExtraTemplate   = "$albumpath/extra/"
	lockSuffix             = ".extrafiles.lock"
)

var defaultCategoryOrder = []string{"booklet", "log", "cue", "cover"}

func defaultPatterns() map[string][]string {
	return map[string][]string{
		"booklet": {`^(?i).*booklet.*\.pdf$`},
		"log":     {`^(?i).*\.log$`},
		"cue":     {`^(?i).*\.cue$`},
		"cover":   {`^(?i).*cover.*\.(jpg|jpeg|png)$`},
	}
}

func defaultPaths() map[string]string {
	paths := make(map[string]string, len(defaultCategoryOrder))
	for _, category := range defaultCategoryOrder {
		paths[category] = defaultExtraTemplate
	}
	return paths
}

// Default returns a Config populated with the plugin defaults.
func Default() Config {
	return Config{
		Scope:    defaultScope,
		Action:   defaultAction,
		Patterns: defaultPatterns(),
		Paths:    defaultPaths(),
		Library: Library{
			Path: defaultLibraryPath,
		},
		Watch: Watch{
			DebounceSeconds: defaultDebounceSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		order: append([]string(nil), defaultCategoryOrder...),
	}
}
