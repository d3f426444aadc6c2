package feed

// FeedPreset identifies one configured feed.
type FeedPreset struct {
	Source   string
	Category string
	URL      string
}

// Presets are the Dutch news feeds the pipeline polls.
var Presets = []FeedPreset{
	{"nos", "general", "https://feeds.nos.nl/nosnieuwsalgemeen"},
	{"nos", "binnenland", "https://feeds.nos.nl/nosnieuwsbinnenland"},
	{"nos", "buitenland", "https://feeds.nos.nl/nosnieuwsbuitenland"},
	{"nos", "sport", "https://feeds.nos.nl/nossportalgemeen"},
	{"nu", "general", "https://www.nu.nl/rss/Algemeen"},
	{"nu", "binnenland", "https://www.nu.nl/rss/Binnenland"},
	{"nu", "economie", "https://www.nu.nl/rss/Economie"},
	{"nu", "tech", "https://www.nu.nl/rss/Tech"},
	{"telegraaf", "algemeen", "https://www.telegraaf.nl/rss"},
	{"telegraaf", "binnenland", "https://www.telegraaf.nl/rss/binnenland"},
	{"telegraaf", "buitenland", "https://www.telegraaf.nl/rss/buitenland"},
	{"telegraaf", "financieel", "https://www.telegraaf.nl/rss/financieel"},
}

// DefaultSources builds an RSS source per preset.
func DefaultSources() []Source {
	sources := make([]Source, 0, len(Presets))
	for _, p := range Presets {
		sources = append(sources, NewRSSSource(RSSConfig{
			Source:   p.Source,
			Category: p.Category,
			URL:      p.URL,
		}))
	}
	return sources
}
