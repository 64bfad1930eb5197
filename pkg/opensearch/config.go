package opensearch

// Config holds cluster connection settings. Username and Password may be left
// empty for clusters without the security plugin.
type Config struct {
	Addresses    []string `env:"OPENSEARCH_ADDRESSES,required" envSeparator:","`
	Username     string   `env:"OPENSEARCH_USERNAME"`
	Password     string   `env:"OPENSEARCH_PASSWORD"`
	MaxRetries   int      `env:"OPENSEARCH_MAX_RETRIES" envDefault:"3"`
	DisableRetry bool     `env:"OPENSEARCH_DISABLE_RETRY" envDefault:"false"`
	EventsIndex  string   `env:"OPENSEARCH_EVENTS_INDEX" envDefault:"frontdoor-events"`
}
