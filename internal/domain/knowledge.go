package domain

// KnowledgeDocument is a free-text reference entry searched by knowledge queries.
type KnowledgeDocument struct {
	ID       string            `yaml:"id" json:"id"`
	Text     string            `yaml:"text" json:"text"`
	Metadata map[string]string `yaml:"metadata" json:"metadata"`
}
