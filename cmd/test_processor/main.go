package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"career-report/internal/adapter/registrar"
	"career-report/internal/adapter/storage"
	"career-report/internal/assets"
	"career-report/internal/domain"
	"career-report/internal/usecase"
	"career-report/pkg/infrastructure"
)

// Runs the full pipeline against the real browser, local storage and a mock backend.

func startMockBackend(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /api/reports/{id}/link", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		fmt.Printf("mock backend: student %s link %s\n", r.PathValue("id"), body)
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("mock backend failed: %v", err)
		}
	}()
	return srv
}

func main() {
	in := "data/sample_request.json"
	if len(os.Args) > 1 {
		in = os.Args[1]
	}
	b, err := os.ReadFile(in)
	if err != nil {
		log.Fatalf("read request: %v", err)
	}
	var req domain.ReportRequest
	if err := json.Unmarshal(b, &req); err != nil {
		log.Fatalf("unmarshal request: %v", err)
	}

	srv := startMockBackend("127.0.0.1:8400")
	defer srv.Shutdown(context.Background())

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	cache, err := assets.Preload("templates", "data", logger)
	if err != nil {
		log.Fatalf("preload: %v", err)
	}

	browser := infrastructure.NewBrowserManager(infrastructure.BrowserOptions{ExecPath: os.Getenv("CHROME_PATH")}, logger)
	defer browser.Close()

	processor := usecase.NewProcessor(cache, usecase.ChromeEngine(browser), infrastructure.NewPDFMerger(),
		storage.NewLocalUploader("resume-data/reports", logger),
		usecase.WithRegistrar(registrar.NewClient("http://127.0.0.1:8400", 5*time.Second, logger)),
		usecase.WithLogger(logger),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	res, err := processor.Generate(ctx, &req)
	if err != nil {
		fmt.Printf("Generate failed: %v\n", err)
		return
	}
	_ = processor.Drain(ctx)

	fmt.Printf("Report generated: %s (%d pages, %d bytes)\n", res.Link, res.PageCount, res.SizeBytes)
}
