// internal/conversation/normalize-text/config.go
package normalizetext

type Config struct {
	FoldAccents bool
	Lemmatize   bool
	KeepPunct   bool
}

func LoadConfig() *Config {
	return &Config{
		FoldAccents: true,
		Lemmatize:   true,
	}
}
