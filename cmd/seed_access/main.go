// seed_access genera un script SQL que asigna roles directos y la capacidad superadmin
// a usuarios existentes a partir de un CSV email,role[,superadmin].
//
// Uso: go run ./cmd/seed_access roles.csv [salida.sql]
// Sin salida escribe en stdout. Los CSV exportados desde Excel en Windows-1252 se
// convierten a UTF-8 automáticamente.
package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/leadportal-api/internal/domain/access"
)

type grant struct {
	email      string
	role       access.Role
	superadmin bool
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Uso: seed_access roles.csv [salida.sql]")
		os.Exit(2)
	}
	raw, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}
	grants, err := parseGrants(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Procesar CSV: %v\n", err)
		os.Exit(1)
	}

	var out io.Writer = os.Stdout
	if len(os.Args) > 2 {
		f, err := os.Create(os.Args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	writeSQL(out, grants)
	fmt.Fprintf(os.Stderr, "Generadas %d asignaciones\n", len(grants))
}

// parseGrants lee el CSV. La cabecera es opcional; filas vacías se ignoran.
func parseGrants(raw []byte) ([]grant, error) {
	var r io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		r = transform.NewReader(r, charmap.Windows1252.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var out []grant
	seen := map[string]int{}
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) == 0 || strings.TrimSpace(strings.Join(rec, "")) == "" {
			continue
		}
		email := strings.ToLower(strings.TrimSpace(rec[0]))
		if line == 1 && email == "email" {
			continue
		}
		if !strings.Contains(email, "@") {
			return nil, fmt.Errorf("línea %d: email inválido %q", line, rec[0])
		}
		g := grant{email: email}
		if len(rec) > 1 && strings.TrimSpace(rec[1]) != "" {
			g.role = access.ParseRole(rec[1])
			if !g.role.Valid() {
				return nil, fmt.Errorf("línea %d: rol desconocido %q", line, rec[1])
			}
		}
		if len(rec) > 2 {
			g.superadmin = parseBool(rec[2])
		}
		if g.role == access.RoleNone && !g.superadmin {
			return nil, fmt.Errorf("línea %d: sin rol ni superadmin", line)
		}
		// La última fila de un email gana.
		if i, dup := seen[email]; dup {
			out[i] = g
			continue
		}
		seen[email] = len(out)
		out = append(out, g)
	}
	return out, nil
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "si", "sí", "x", "yes":
		return true
	}
	return false
}

func writeSQL(w io.Writer, grants []grant) {
	fmt.Fprintln(w, "-- Roles directos y superadmin")
	fmt.Fprintln(w, "-- Generado por cmd/seed_access")
	fmt.Fprintln(w, "BEGIN;")
	for _, g := range grants {
		email := escapeSQL(g.email)
		if g.role != access.RoleNone {
			fmt.Fprintf(w, "INSERT INTO user_roles (user_id, role)\n")
			fmt.Fprintf(w, "SELECT id, '%s' FROM users WHERE lower(email) = '%s'\n", g.role, email)
			fmt.Fprintln(w, "ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role, updated_at = NOW();")
		}
		fmt.Fprintf(w, "UPDATE users SET superadmin = %t, updated_at = NOW() WHERE lower(email) = '%s';\n", g.superadmin, email)
	}
	fmt.Fprintln(w, "COMMIT;")
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
