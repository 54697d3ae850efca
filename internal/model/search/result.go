package search

// Result is a single record returned by the search backend. Empty fields are
// rendered as "N/A" by the search dialogue.
type Result struct {
	SourceTitle string `json:"source_title"`
	URL         string `json:"url"`
	Snippet     string `json:"snippet"`
}

// ResultSet groups the results for one query string.
type ResultSet struct {
	Results []Result `json:"results"`
}
