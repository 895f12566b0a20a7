package subs

// Pattern maps a stable key to a detection rule and a display label. The
// rule is a case-insensitive regular expression matched anywhere in a
// transaction description. Table order is priority order: classification
// returns the first matching entry.
type Pattern struct {
	Key   string
	Label string
	expr  string
}

var patterns = []Pattern{
	// Streaming
	{Key: "netflix", Label: "Netflix", expr: `netflix`},
	{Key: "hulu", Label: "Hulu", expr: `hulu`},
	{Key: "disney", Label: "Disney+", expr: `disney\+?`},
	{Key: "spotify", Label: "Spotify", expr: `spotify`},
	{Key: "apple", Label: "Apple Services", expr: `apple\s?(music|tv|one|arcade|storage|icloud)`},
	{Key: "youtube", Label: "YouTube Premium", expr: `youtube`},
	{Key: "amazon-prime", Label: "Amazon Prime", expr: `amazon\s?prime`},
	{Key: "hbo-max", Label: "HBO Max", expr: `hbo\s?max|max\.com`},
	{Key: "peacock", Label: "Peacock", expr: `peacock`},
	{Key: "paramount", Label: "Paramount+", expr: `paramount`},
	{Key: "crunchyroll", Label: "Crunchyroll", expr: `crunchyroll`},
	{Key: "audible", Label: "Audible", expr: `audible`},
	{Key: "kindle", Label: "Kindle Unlimited", expr: `kindle`},

	// Tech / productivity
	{Key: "adobe", Label: "Adobe", expr: `adobe`},
	{Key: "microsoft-365", Label: "Microsoft 365", expr: `microsoft\s?365|office\s?365`},
	{Key: "google", Label: "Google Services", expr: `google\s?(one|storage|workspace)`},
	{Key: "dropbox", Label: "Dropbox", expr: `dropbox`},
	{Key: "icloud", Label: "iCloud", expr: `icloud`},
	{Key: "chatgpt", Label: "ChatGPT", expr: `chatgpt|openai`},
	{Key: "claude", Label: "Claude", expr: `claude|anthropic`},

	// VPN / security
	{Key: "nordvpn", Label: "NordVPN", expr: `nordvpn`},
	{Key: "expressvpn", Label: "ExpressVPN", expr: `expressvpn`},
	{Key: "surfshark", Label: "Surfshark", expr: `surfshark`},
	{Key: "1password", Label: "1Password", expr: `1password`},
	{Key: "lastpass", Label: "LastPass", expr: `lastpass`},
	{Key: "bitwarden", Label: "Bitwarden", expr: `bitwarden`},
	{Key: "dashlane", Label: "Dashlane", expr: `dashlane`},

	// Productivity / creative
	{Key: "notion", Label: "Notion", expr: `notion`},
	{Key: "evernote", Label: "Evernote", expr: `evernote`},
	{Key: "grammarly", Label: "Grammarly", expr: `grammarly`},
	{Key: "canva", Label: "Canva", expr: `canva`},
	{Key: "figma", Label: "Figma", expr: `figma`},
	{Key: "github", Label: "GitHub", expr: `github|copilot`},

	// Gaming
	{Key: "xbox", Label: "Xbox", expr: `xbox\s?(game\s?pass|live|gold)`},
	{Key: "playstation", Label: "PlayStation", expr: `playstation\s?(plus|now)`},
	{Key: "nintendo", Label: "Nintendo Online", expr: `nintendo`},
	{Key: "ea-play", Label: "EA Play", expr: `ea\s?play`},
	{Key: "geforce-now", Label: "GeForce Now", expr: `geforce\s?now`},
	{Key: "twitch", Label: "Twitch", expr: `twitch`},
	{Key: "discord-nitro", Label: "Discord Nitro", expr: `discord\s?nitro`},

	// Media / news
	{Key: "patreon", Label: "Patreon", expr: `patreon`},
	{Key: "substack", Label: "Substack", expr: `substack`},
	{Key: "medium", Label: "Medium", expr: `medium`},
	{Key: "nyt", Label: "New York Times", expr: `nyt|new\s?york\s?times`},
	{Key: "wsj", Label: "Wall Street Journal", expr: `wall\s?street\s?journal|wsj`},
	{Key: "washington-post", Label: "Washington Post", expr: `washington\s?post`},

	// Fitness / wellness
	{Key: "headspace", Label: "Headspace", expr: `headspace`},
	{Key: "calm", Label: "Calm", expr: `calm`},
	{Key: "peloton", Label: "Peloton", expr: `peloton`},
	{Key: "planet-fitness", Label: "Planet Fitness", expr: `planet\s?fitness`},
	{Key: "anytime-fitness", Label: "Anytime Fitness", expr: `anytime\s?fitness`},
	{Key: "la-fitness", Label: "LA Fitness", expr: `la\s?fitness`},
	{Key: "gym", Label: "Gym Membership", expr: `gym`},
	{Key: "ymca", Label: "YMCA", expr: `ymca`},
	{Key: "strava", Label: "Strava", expr: `strava`},
	{Key: "fitbit", Label: "Fitbit", expr: `fitbit`},
	{Key: "whoop", Label: "Whoop", expr: `whoop`},

	// Music
	{Key: "tidal", Label: "Tidal", expr: `tidal`},
	{Key: "pandora", Label: "Pandora", expr: `pandora`},
	{Key: "deezer", Label: "Deezer", expr: `deezer`},
	{Key: "siriusxm", Label: "SiriusXM", expr: `siriusxm|sirius`},

	// Home / misc services
	{Key: "ancestry", Label: "Ancestry", expr: `ancestry`},
	{Key: "23andme", Label: "23andMe", expr: `23andme`},
	{Key: "ring", Label: "Ring", expr: `ring`},
	{Key: "adt", Label: "ADT", expr: `adt`},
	{Key: "simplisafe", Label: "SimpliSafe", expr: `simplisafe`},
	{Key: "nest", Label: "Nest", expr: `nest`},

	// Food / retail memberships
	{Key: "dashpass", Label: "DoorDash DashPass", expr: `doordash\s?dashpass`},
	{Key: "uber-one", Label: "Uber One", expr: `uber\s?(one|pass|eats\s?pass)`},
	{Key: "grubhub", Label: "Grubhub", expr: `grubhub`},
	{Key: "instacart", Label: "Instacart", expr: `instacart`},
	{Key: "walmart-plus", Label: "Walmart+", expr: `walmart\s?plus`},
	{Key: "costco", Label: "Costco", expr: `costco`},
	{Key: "sams-club", Label: "Sam's Club", expr: `sam.?s\s?club`},
	{Key: "bjs", Label: "BJ's", expr: `bj.?s`},
	{Key: "chewy", Label: "Chewy", expr: `chewy`},
	{Key: "barkbox", Label: "BarkBox", expr: `bark\s?box`},
	{Key: "hellofresh", Label: "HelloFresh", expr: `hellofresh`},
	{Key: "blue-apron", Label: "Blue Apron", expr: `blue\s?apron`},
	{Key: "home-chef", Label: "Home Chef", expr: `home\s?chef`},
	{Key: "factor", Label: "Factor", expr: `factor`},
	{Key: "daily-harvest", Label: "Daily Harvest", expr: `daily\s?harvest`},
}

// Patterns returns a copy of the table in priority order.
func Patterns() []Pattern {
	out := make([]Pattern, len(patterns))
	copy(out, patterns)
	return out
}

// LabelFor returns the display label for a pattern key, or "" if unknown.
func LabelFor(key string) string {
	for _, p := range patterns {
		if p.Key == key {
			return p.Label
		}
	}
	return ""
}
