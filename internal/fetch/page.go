// Package fetch retrieves raw documents over HTTP via the Colly collector.
package fetch

import "net/http"

// Page is the result of fetching a single document.
type Page struct {
	URL        string
	FinalURL   string
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// ContentLength reports the body size in bytes.
func (p Page) ContentLength() int {
	return len(p.Body)
}
