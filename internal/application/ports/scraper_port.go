package ports

import "context"

// ScrapedPage texto visible de una página web.
type ScrapedPage struct {
	URL    string
	Domain string
	Text   string
}

// PageFetcher descarga una página y extrae su texto.
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*ScrapedPage, error)
}
