package config

const (
	defaultConfigPath            = "~/.config/foodreel/config.toml"
	defaultDataDir               = "~/.local/share/foodreel"
	defaultItemsFile             = "items.json"
	defaultRestaurantsFile       = "restaurants.json"
	defaultOverridesFile         = "overrides.json"
	defaultLedgerFile            = "ledger.db"
	defaultLogDir                = "~/.local/share/foodreel/logs"
	defaultGooglePlacesBaseURL   = "https://places.googleapis.com/v1"
	defaultGooglePlacesLanguage  = "en"
	defaultYelpBaseURL           = "https://api.yelp.com/v3"
	defaultRequestDelayMS        = 1000
	defaultRequestTimeoutSeconds = 10
	defaultMaxSnippets           = 3
	defaultMinNameSimilarity     = 0.3
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:         defaultDataDir,
			ItemsFile:       defaultItemsFile,
			RestaurantsFile: defaultRestaurantsFile,
			OverridesFile:   defaultOverridesFile,
			LedgerPath:      defaultLedgerFile,
			LogDir:          defaultLogDir,
		},
		GooglePlaces: GooglePlaces{
			BaseURL:  defaultGooglePlacesBaseURL,
			Language: defaultGooglePlacesLanguage,
		},
		Yelp: Yelp{
			BaseURL: defaultYelpBaseURL,
		},
		Enrichment: Enrichment{
			RequestDelayMS:        defaultRequestDelayMS,
			RequestTimeoutSeconds: defaultRequestTimeoutSeconds,
			MaxSnippets:           defaultMaxSnippets,
			MinNameSimilarity:     defaultMinNameSimilarity,
		},
		Extraction: Extraction{
			RecognizerEnabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
