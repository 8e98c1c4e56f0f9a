package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Writes a starter .env for local development, prompting for the values
// that have no usable default. Existing files are never overwritten.
func main() {
	if _, err := os.Stat(".env"); err == nil {
		fmt.Println(".env already exists, refusing to overwrite")
		os.Exit(1)
	}

	in := bufio.NewReader(os.Stdin)
	prompts := []struct {
		key, def, label string
	}{
		{"POSTGRES_HOST", "localhost", "Postgres host"},
		{"POSTGRES_PORT", "5432", "Postgres port"},
		{"POSTGRES_USER", "postgres", "Postgres user"},
		{"POSTGRES_PASSWORD", "", "Postgres password"},
		{"POSTGRES_NAME", "pactum", "Postgres database"},
		{"STORE_BACKEND", "postgres", "Store backend (postgres|mongo|mirrored)"},
		{"MONGO_URI", "", "Mongo URI (blank to skip)"},
		{"REDIS_ADDR", "", "Redis address (blank to skip)"},
		{"CONTRACT_GCS_BUCKET_NAME", "", "GCS bucket for uploads (blank for local)"},
		{"SERVER_ADDR", ":8080", "Server listen address"},
	}

	var b strings.Builder
	for _, p := range prompts {
		if p.def != "" {
			fmt.Printf("%s [%s]: ", p.label, p.def)
		} else {
			fmt.Printf("%s: ", p.label)
		}
		line, _ := in.ReadString('\n')
		val := strings.TrimSpace(line)
		if val == "" {
			val = p.def
		}
		if val != "" {
			fmt.Fprintf(&b, "%s=%s\n", p.key, val)
		}
	}

	if err := os.WriteFile(".env", []byte(b.String()), 0o600); err != nil {
		fmt.Printf("Failed to write .env: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Wrote .env")
}
