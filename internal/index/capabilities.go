package index

// Capabilities records which optional index features were built. It is
// resolved once per index build.
type Capabilities struct {
	Lexical        bool     `json:"lexical"`
	LexicalBackend string   `json:"lexical_backend,omitempty"`
	Approximate    bool     `json:"approximate"`
	Notes          []string `json:"notes,omitempty"`
}
