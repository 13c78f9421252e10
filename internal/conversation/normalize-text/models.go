// internal/conversation/normalize-text/models.go
package normalizetext

type Input struct {
	Text string `json:"text"`
}

type Output struct {
	Normalized string   `json:"normalized"`
	Tokens     []string `json:"tokens"`
	Lemmas     []string `json:"lemmas"`
}
