// Package policy carga la política de portales desde un archivo YAML.
package policy

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jhoicas/leadportal-api/internal/domain/access"
)

// Load devuelve la política por defecto si path está vacío. Los campos ausentes del archivo
// conservan el valor por defecto; los desconocidos son error.
func Load(path string) (*access.Policy, error) {
	if path == "" {
		return access.DefaultPolicy(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("policy: leer %s: %w", path, err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("policy: %s: %w", path, err)
	}
	return p, nil
}

// Parse decodifica y valida.
func Parse(data []byte) (*access.Policy, error) {
	p := access.DefaultPolicy()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("yaml inválido: %w", err)
	}
	for i, pub := range p.PublicPaths {
		p.PublicPaths[i] = access.NormalizePath(pub)
	}
	p.LoginPath = access.NormalizePath(p.LoginPath)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
