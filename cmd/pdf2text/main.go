// Command pdf2text converts a PDF document into plain text by rasterizing its
// pages and running OCR on each page image.
//
// Usage:
//
//	pdf2text [flags] <pdf>
//
// Pipeline settings come from an optional YAML config file (-config),
// PDF2TEXT_* environment variables, and flags, in increasing precedence.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"pdf2text/config"
	"pdf2text/observability"
	"pdf2text/ocr/tesseract"
	"pdf2text/pipeline"
	"pdf2text/raster"
	"pdf2text/result"
)

type options struct {
	pdfPath string
	asJSON  bool
	quiet   bool
	cfg     config.Config
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "pdf2text: %v\n", err)
		os.Exit(1)
	}
	if err := run(opts, os.Stdout); err != nil {
		fmt.Printf("[ERROR] %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("pdf2text", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: pdf2text [flags] <pdf>\n")
		fs.PrintDefaults()
	}
	configPath := fs.String("config", "", "Path to a YAML config file")
	strategy := fs.String("strategy", config.StrategyImage, "Extraction strategy: image or direct")
	dpi := fs.Float64("dpi", raster.DefaultDPI, "Raster density in dots per inch")
	lang := fs.String("lang", "eng", "OCR recognition language")
	preprocessFlag := fs.Bool("preprocess", true, "Clean page images before OCR (image strategy)")
	force := fs.Bool("force", false, "Re-run OCR even if the PDF already has a text layer (direct strategy)")
	parallel := fs.Bool("parallel", false, "Allow the enrichment pass to use multiple workers (direct strategy)")
	asJSON := fs.Bool("json", false, "Emit a structured JSON record instead of raw text")
	quiet := fs.Bool("quiet", false, "Suppress progress logging")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return options{}, fmt.Errorf("missing pdf path")
	}
	opts.pdfPath = fs.Arg(0)
	opts.asJSON = *asJSON
	opts.quiet = *quiet

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return options{}, err
		}
		cfg = loaded
	}
	cfg = config.FromEnv(cfg)

	// Flags set explicitly on the command line win over file and environment.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "strategy":
			cfg.Strategy = *strategy
		case "dpi":
			cfg.DPI = *dpi
		case "lang":
			cfg.Language = *lang
		case "preprocess":
			cfg.Preprocess = *preprocessFlag
		case "force":
			cfg.ForceOCR = *force
		case "parallel":
			cfg.Parallel = *parallel
		}
	})
	if err := cfg.Validate(); err != nil {
		return options{}, err
	}
	opts.cfg = cfg
	return opts, nil
}

func run(opts options, out io.Writer) error {
	if _, err := os.Stat(opts.pdfPath); err != nil {
		return fmt.Errorf("file not found: %s", opts.pdfPath)
	}

	log := observability.Logger(observability.NopLogger{})
	if !opts.quiet {
		zlog, err := zap.NewProduction()
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer zlog.Sync()
		log = observability.NewZapLogger(zlog.With(zap.String("document", opts.pdfPath)))
	}

	strategy, err := buildStrategy(opts.cfg, log)
	if err != nil {
		return err
	}
	log.Debug("pipeline configured",
		observability.String("strategy", strategy.Name()),
		observability.Float64("dpi", opts.cfg.DPI),
		observability.Bool("preprocess", opts.cfg.Preprocess),
	)
	text, err := pipeline.Extract(context.Background(), strategy, opts.pdfPath)
	if err != nil {
		return err
	}

	if opts.asJSON {
		enc := json.NewEncoder(out)
		return enc.Encode(result.New(text))
	}
	fmt.Fprintln(out, text)
	return nil
}

func buildStrategy(cfg config.Config, log observability.Logger) (pipeline.Strategy, error) {
	source := raster.New(raster.WithDPI(cfg.DPI), raster.WithLogger(log))
	opts := pipeline.Options{
		Preprocess: cfg.Preprocess,
		Languages:  []string{cfg.Language},
		DPI:        int(cfg.DPI),
		ForceOCR:   cfg.ForceOCR,
		Parallel:   cfg.Parallel,
		Logger:     log,
	}
	switch cfg.Strategy {
	case config.StrategyImage:
		// nil picks the process-wide default, registered by the tesseract
		// import.
		return pipeline.NewImageStrategy(source, nil, opts), nil
	case config.StrategyDirect:
		return pipeline.NewDirectStrategy(source, tesseract.NewEngine(), opts), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", cfg.Strategy)
	}
}
