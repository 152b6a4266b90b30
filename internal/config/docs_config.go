package config

import "strings"

// DocsConfig describes the external documentation service (Wiki.js) the
// gateway links to from its pages.
type DocsConfig interface {
	GetDocumentationURL() string
	GetDocumentationEnabled() bool
}

type Docs struct{}

var _ DocsConfig = Docs{}

func (Docs) GetDocumentationURL() string {
	return GetEnv("DOCUMENTATION_URL", "https://rancher.local/wiki")
}

func (Docs) GetDocumentationEnabled() bool {
	return strings.EqualFold(GetEnv("DOCUMENTATION_ENABLED", "true"), "true")
}
