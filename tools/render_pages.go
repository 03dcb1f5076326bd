package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"career-report/internal/assets"
	"career-report/internal/domain"
	"career-report/internal/populate"
	"career-report/internal/usecase"
)

// Writes the six populated pages of a request as HTML, without a browser.
func main() {
	in := "data/sample_request.json"
	if len(os.Args) > 1 {
		in = os.Args[1]
	}
	b, err := os.ReadFile(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read request: %v\n", err)
		os.Exit(2)
	}
	var req domain.ReportRequest
	if err := json.Unmarshal(b, &req); err != nil {
		fmt.Fprintf(os.Stderr, "unmarshal: %v\n", err)
		os.Exit(2)
	}

	cache, err := assets.Preload("templates", "data", slog.Default())
	if err != nil {
		fmt.Fprintf(os.Stderr, "preload: %v\n", err)
		os.Exit(2)
	}
	data, err := usecase.Enrich(req.ReportData, cache)
	if err != nil {
		fmt.Fprintf(os.Stderr, "enrich: %v\n", err)
		os.Exit(2)
	}

	outDir := filepath.Join("resume-data", "generated")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "create out dir: %v\n", err)
		os.Exit(2)
	}
	id := populate.Identity{StudentID: req.ResolvedStudentID(), StudentName: req.StudentName}
	for _, name := range assets.TemplateNames {
		tpl, _ := cache.Template(name)
		for _, m := range populate.Lint(name, tpl) {
			fmt.Printf("%s: missing %s\n", name, m)
		}
		html, err := populate.Populate(tpl, populate.PageFromName(name), data, id, cache)
		if err != nil {
			fmt.Fprintf(os.Stderr, "populate %s: %v\n", name, err)
			os.Exit(2)
		}
		out := filepath.Join(outDir, name)
		if err := os.WriteFile(out, []byte(html), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "write %s: %v\n", out, err)
			os.Exit(2)
		}
		fmt.Printf("wrote %s\n", out)
	}
}
