package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	imgio "github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/ironsheep/ee-snic-mcp/internal/config"
	"github.com/ironsheep/ee-snic-mcp/internal/ee"
	"github.com/ironsheep/ee-snic-mcp/internal/imaging"
	"github.com/ironsheep/ee-snic-mcp/internal/logging"
	"github.com/ironsheep/ee-snic-mcp/internal/mapview"
	"github.com/ironsheep/ee-snic-mcp/internal/server"
	"github.com/ironsheep/ee-snic-mcp/internal/snic"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("snic-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printUsage()
			return
		}
	}

	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "snic-mcp: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("snic-mcp - MCP server for Earth Engine SNIC segmentation")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  snic-mcp                    Serve MCP over stdin/stdout")
	fmt.Println("  snic-mcp example [out.png]  Publish the SNIC example, print its layers")
	fmt.Println("                              and optionally save a preview image")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  SNIC_MCP_CONFIG=path.yaml          Config file")
	fmt.Println("  SNIC_MCP_EE_PROJECT=my-project     Cloud project (or GOOGLE_CLOUD_PROJECT)")
	fmt.Println("  SNIC_MCP_EE_CREDENTIALS_FILE=...   Credentials JSON (default: ADC)")
	fmt.Println("  SNIC_MCP_LOG_LEVEL=debug           Log level")
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}

func run(args []string) error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Debug("starting",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("commit", GitCommit))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var client *ee.Client
	if cfg.EE.Project != "" {
		client, err = ee.NewClient(ctx, ee.Options{
			Project:         cfg.EE.Project,
			CredentialsFile: cfg.EE.CredentialsFile,
			Endpoint:        cfg.EE.Endpoint,
			Logger:          logger.Named("ee"),
		})
		if err != nil {
			return err
		}
	} else {
		logger.Warn("ee.project is not set, Earth Engine tools are disabled")
	}

	var cache *imaging.TileCache
	if cfg.Preview.CacheTiles > 0 {
		cache = imaging.NewTileCache(cfg.Preview.CacheTiles)
	}

	if len(args) > 0 {
		switch args[0] {
		case "example":
			if client == nil {
				return errors.New("example needs ee.project (SNIC_MCP_EE_PROJECT)")
			}
			out := ""
			if len(args) > 1 {
				out = args[1]
			}
			renderer := mapview.NewRenderer(client, cache, logger.Named("mapview"))
			return runExample(ctx, renderer, cfg.Preview, out)
		default:
			return fmt.Errorf("unknown command %q, see --help", args[0])
		}
	}

	opts := server.Options{
		Version:       Version,
		PreviewWidth:  cfg.Preview.Width,
		PreviewHeight: cfg.Preview.Height,
		Logger:        logger.Named("server"),
	}
	if client != nil {
		opts.Renderer = mapview.NewRenderer(client, cache, logger.Named("mapview"))
		opts.Bands = client
	}
	return server.New(opts).Run(ctx)
}

// runExample publishes the SNIC example, writes the published view as JSON
// to stdout and, when out is set, saves a preview with cluster outlines.
func runExample(ctx context.Context, r *mapview.Renderer, preview config.PreviewConfig, out string) error {
	m := mapview.New()
	snic.Run(ee.Builder{}, m)

	view, err := r.Publish(ctx, m)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(view); err != nil {
		return err
	}

	if out == "" {
		return nil
	}
	img, err := r.Preview(ctx, view, preview.Width, preview.Height, mapview.PreviewOptions{
		OutlineLayer: snic.LabelClusters,
	})
	if err != nil {
		return err
	}
	if err := imgio.Save(img, out); err != nil {
		return fmt.Errorf("failed to save preview: %w", err)
	}
	return nil
}
