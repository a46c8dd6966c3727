// File path: cmd/agreementd/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/camline/agreementd/internal/api"
	"github.com/camline/agreementd/internal/common"
	"github.com/camline/agreementd/internal/docscan"
	"github.com/camline/agreementd/internal/llm"
	"github.com/camline/agreementd/internal/pipeline"
	"github.com/camline/agreementd/internal/sqlite"
	"github.com/camline/agreementd/internal/storage"
)

func main() {
	logger := common.Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := godotenv.Load(); err != nil {
		logger.Warn("agreementd: .env file not loaded", "error", err)
	} else {
		logger.Info("agreementd: environment loaded from .env")
	}

	addr := flag.String("addr", ":8084", "listen address")
	catalogPath := flag.String("catalog", defaultCatalogPath(), "path to the SQLite run catalog")
	storeRoot := flag.String("store", defaultStoreRoot(), "root directory for the filesystem object store")
	once := flag.Bool("once", false, "execute a single assembly run and exit")
	flag.Parse()

	logger.Info("agreementd: startup initiated", "addr", *addr, "catalog", *catalogPath)

	cfg, err := pipeline.LoadConfig()
	if err != nil {
		logger.Error("agreementd: pipeline config load failed", "error", err)
		fmt.Println("pipeline config error:", err)
		os.Exit(1)
	}

	store, err := buildObjectStore(*storeRoot)
	if err != nil {
		logger.Error("agreementd: object store init failed", "error", err)
		fmt.Println("object store error:", err)
		os.Exit(1)
	}

	runCatalog, err := sqlite.Open(*catalogPath)
	if err != nil {
		logger.Error("agreementd: run catalog init failed", "error", err)
		fmt.Println("run catalog error:", err)
		os.Exit(1)
	}
	defer runCatalog.Close()

	analyzer := buildAnalyzer()
	provider := llm.NewProvider()
	logger.Info("agreementd: llm provider ready", "provider", provider.Name())

	runner, err := pipeline.NewRunner(cfg, store, runCatalog, analyzer, provider)
	if err != nil {
		logger.Error("agreementd: pipeline init failed", "error", err)
		fmt.Println("pipeline error:", err)
		os.Exit(1)
	}

	if *once {
		result, err := runner.Run(ctx)
		if err != nil {
			logger.Error("agreementd: assembly run failed", "error", err)
			fmt.Println("assembly run error:", err)
			os.Exit(1)
		}
		fmt.Printf("Run %s complete: %d emitted, %d skipped, output %s\n",
			result.RunID, result.Emitted, result.Skipped, result.OutputKey)
		return
	}

	server, err := api.NewServer(runner, runCatalog)
	if err != nil {
		logger.Error("agreementd: server construction failed", "error", err)
		fmt.Println("server error:", err)
		os.Exit(1)
	}

	logger.Info("agreementd: server listening", "addr", *addr, "health", "/healthz")
	fmt.Printf("Serving on %s\n", *addr)
	if err := http.ListenAndServe(*addr, server); err != nil {
		logger.Error("agreementd: server stopped", "error", err)
		fmt.Println("server stopped:", err)
	}
}

// buildObjectStore selects MinIO when an endpoint is configured and the
// filesystem store otherwise.
func buildObjectStore(fsRoot string) (storage.ObjectStore, error) {
	logger := common.Logger()
	endpoint := strings.TrimSpace(os.Getenv("AGREEMENTD_MINIO_ENDPOINT"))
	if endpoint == "" {
		logger.Info("agreementd: using filesystem object store", "root", fsRoot)
		return storage.NewFSStore(fsRoot)
	}
	useSSL := false
	if value := strings.TrimSpace(os.Getenv("AGREEMENTD_MINIO_USE_SSL")); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			logger.Warn("agreementd: invalid AGREEMENTD_MINIO_USE_SSL, assuming false", "value", value)
		} else {
			useSSL = parsed
		}
	}
	return storage.NewMinioStore(storage.MinioConfig{
		Endpoint:  endpoint,
		AccessKey: os.Getenv("AGREEMENTD_MINIO_ACCESS_KEY"),
		SecretKey: os.Getenv("AGREEMENTD_MINIO_SECRET_KEY"),
		Bucket:    firstNonEmpty(os.Getenv("AGREEMENTD_BUCKET"), pipeline.DefaultConfig().Bucket),
		UseSSL:    useSSL,
	})
}

// buildAnalyzer returns the document-analysis client when an endpoint is
// configured. Without one, rows with scanned memos degrade to the fallback
// narrative.
func buildAnalyzer() docscan.Analyzer {
	logger := common.Logger()
	endpoint := strings.TrimSpace(os.Getenv("AGREEMENTD_DOCSCAN_ENDPOINT"))
	if endpoint == "" {
		logger.Info("agreementd: document analysis not configured")
		return nil
	}
	timeout := time.Duration(0)
	if value := strings.TrimSpace(os.Getenv("AGREEMENTD_DOCSCAN_TIMEOUT")); value != "" {
		dur, err := time.ParseDuration(value)
		if err != nil {
			logger.Warn("agreementd: invalid AGREEMENTD_DOCSCAN_TIMEOUT, using default", "value", value, "error", err)
		} else {
			timeout = dur
		}
	}
	client, err := docscan.NewClient(docscan.ClientConfig{
		Endpoint: endpoint,
		APIToken: os.Getenv("AGREEMENTD_DOCSCAN_TOKEN"),
		Timeout:  timeout,
	})
	if err != nil {
		logger.Warn("agreementd: document analysis client init failed", "error", err)
		return nil
	}
	logger.Info("agreementd: document analysis configured", "endpoint", endpoint)
	return client
}

func defaultCatalogPath() string {
	return filepath.Join("data", "catalog.db")
}

func defaultStoreRoot() string {
	return filepath.Join("data", "objects")
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
