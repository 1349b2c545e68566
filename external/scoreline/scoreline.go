package scoreline

// Provider wire types. The scoreline API returns the whole season as an
// array of week envelopes; scores arrive as strings for in-progress games on
// some provider plans, so both fields are raw here and normalized in the
// client.

type seasonEnvelope struct {
	Season int            `json:"season"`
	Weeks  []weekEnvelope `json:"weeks"`
}

type weekEnvelope struct {
	Week  int            `json:"week"`
	Games []gameEnvelope `json:"games"`
}

type gameEnvelope struct {
	Home             string `json:"home"`
	Visitor          string `json:"visitor"`
	Kickoff          string `json:"kickoff"`
	Status           string `json:"status"`
	HomeScore        *int   `json:"homeScore"`
	VisitorScore     *int   `json:"visitorScore"`
	SecondsRemaining int    `json:"secondsRemaining"`
}
