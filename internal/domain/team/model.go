package team

import "strings"

// Team is one franchise in the internal team table. Feed matchups reference
// teams by short code; ResolveRef maps those codes (including the feed's
// historical aliases) to internal IDs.
type Team struct {
	ID      string
	Abbr    string
	Name    string
	City    string
	ByeWeek *int
}

// refAliases maps feed short codes that differ from our abbreviations.
var refAliases = map[string]string{
	"JAX": "JAC",
	"WSH": "WAS",
	"LA":  "LAR",
	"ARZ": "ARI",
	"CLV": "CLE",
	"HST": "HOU",
	"BLT": "BAL",
}

func NormalizeRef(value string) string {
	ref := strings.ToUpper(strings.TrimSpace(value))
	if alias, ok := refAliases[ref]; ok {
		return alias
	}
	return ref
}

// ResolveRef finds the team whose abbreviation matches a feed short code.
func ResolveRef(teams []Team, ref string) (Team, bool) {
	normalized := NormalizeRef(ref)
	if normalized == "" {
		return Team{}, false
	}
	for _, item := range teams {
		if item.Abbr == normalized {
			return item, true
		}
	}
	return Team{}, false
}
