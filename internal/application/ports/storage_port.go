package ports

import "context"

// FileStore almacenamiento de archivos subidos (bucket). Las rutas son relativas al bucket.
type FileStore interface {
	Save(ctx context.Context, path string, data []byte) error
	Read(ctx context.Context, path string) ([]byte, error)
}

// PDFTextExtractor extrae el texto de un PDF.
type PDFTextExtractor interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}
