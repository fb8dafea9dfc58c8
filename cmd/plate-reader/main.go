package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/akamensky/argparse"
	"github.com/cyclopcam/logs"

	"github.com/ironsheep/plate-reader/internal/config"
	"github.com/ironsheep/plate-reader/internal/detector"
	"github.com/ironsheep/plate-reader/internal/pipeline"
	"github.com/ironsheep/plate-reader/internal/render"
	"github.com/ironsheep/plate-reader/internal/results"
	"github.com/ironsheep/plate-reader/internal/server"
	"github.com/ironsheep/plate-reader/internal/video"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	parser := argparse.NewParser("plate-reader", "Read license plate text from video frames")

	runCmd := parser.NewCommand("run", "Process a video file or a directory of frames")
	configFile := runCmd.String("c", "config", &argparse.Options{Help: "JSON configuration file", Default: ""})
	input := runCmd.String("i", "input", &argparse.Options{Help: "Input video file or frame directory (overrides the config)", Default: ""})
	outputDir := runCmd.String("o", "output", &argparse.Options{Help: "Output directory (overrides the config)", Default: ""})

	serveCmd := parser.NewCommand("serve", "Run the MCP server on stdin/stdout")
	plateModel := serveCmd.String("p", "plate-model", &argparse.Options{Help: "Plate detector source (enables plate_read)", Default: ""})
	charModel := serveCmd.String("m", "char-model", &argparse.Options{Help: "Character detector source (enables plate_read)", Default: ""})

	versionCmd := parser.NewCommand("version", "Print version information")

	if err := parser.Parse(os.Args); err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	switch {
	case versionCmd.Happened():
		fmt.Printf("plate-reader %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		if v := detector.TesseractVersion(); v != "" {
			fmt.Printf("  Tesseract:  %s\n", v)
		} else {
			fmt.Printf("  Tesseract:  not linked\n")
		}
	case runCmd.Happened():
		logger, err := logs.NewLog()
		if err != nil {
			fmt.Printf("Failed to create logger: %v\n", err)
			os.Exit(1)
		}
		if err := run(logger, *configFile, *input, *outputDir); err != nil {
			logger.Errorf("%v", err)
			os.Exit(1)
		}
	case serveCmd.Happened():
		// stdout carries the protocol
		logger := &logs.Logger{Output: os.Stderr}
		if err := serve(logger, *plateModel, *charModel); err != nil {
			logger.Errorf("Server error: %v", err)
			os.Exit(1)
		}
	}
}

func run(logger logs.Log, configFile, input, outputDir string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if input != "" {
		cfg.InputVideoSource = input
	}
	if outputDir != "" {
		cfg.OutputDirectory = outputDir
	}
	if cfg.InputVideoSource == "" {
		return fmt.Errorf("no input video source configured")
	}

	opts := detector.Options{Timeout: time.Duration(cfg.DetectorTimeout), InputSize: cfg.WorkingSize}
	plates, err := detector.Open(cfg.PlateModelSource, opts)
	if err != nil {
		return fmt.Errorf("failed to open plate detector: %w", err)
	}
	defer detector.Close(plates)
	chars, err := detector.Open(cfg.CharModelSource, opts)
	if err != nil {
		return fmt.Errorf("failed to open character detector: %w", err)
	}
	defer detector.Close(chars)
	if err := checkHealth(plates, chars); err != nil {
		return err
	}
	style, err := render.ParseStyle(cfg.PlateColor, cfg.TextColor, cfg.CharColor)
	if err != nil {
		return err
	}

	src, err := video.OpenSource(cfg.InputVideoSource)
	if err != nil {
		return err
	}
	defer src.Close()
	info, err := src.Info()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.OutputDirectory, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	sink, err := results.Open(cfg.ResultsFormat, cfg.OutputDirectory)
	if err != nil {
		return err
	}
	defer sink.Close()
	output, err := video.CreateSink(filepath.Join(cfg.OutputDirectory, cfg.OutputVideo), info)
	if err != nil {
		return err
	}
	defer output.Close()

	settings := pipeline.DefaultSettings()
	settings.PlateThreshold = cfg.PlateConfidenceThreshold
	settings.CharThreshold = cfg.CharacterConfidenceThreshold
	settings.WorkingSize = cfg.WorkingSize
	settings.RowGap = cfg.RowGap

	proc := &pipeline.Processor{
		Log:     logger,
		Reader:  pipeline.NewReader(logger, plates, chars, settings),
		Results: sink,
		Output:  output,
		Style:   style,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Infof("Reading plates from %s (%dx%d @ %.1f fps)", cfg.InputVideoSource, info.Width, info.Height, info.FPS)
	if dir, ok := src.(*video.DirSource); ok {
		logger.Infof("%d frames", dir.Len())
	}
	_, err = proc.Run(ctx, src)
	return err
}

func serve(logger logs.Log, plateModel, charModel string) error {
	logger.Infof("plate-reader MCP server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)

	var reader *pipeline.Reader
	if plateModel != "" && charModel != "" {
		plates, err := detector.Open(plateModel, detector.Options{})
		if err != nil {
			return fmt.Errorf("failed to open plate detector: %w", err)
		}
		defer detector.Close(plates)
		chars, err := detector.Open(charModel, detector.Options{})
		if err != nil {
			return fmt.Errorf("failed to open character detector: %w", err)
		}
		defer detector.Close(chars)
		if err := checkHealth(plates, chars); err != nil {
			return err
		}
		reader = pipeline.NewReader(logger, plates, chars, pipeline.DefaultSettings())
	}

	return server.New(logger, reader).Run()
}

// checkHealth fails fast when a remote detector is not answering.
func checkHealth(plates, chars detector.Detector) error {
	if err := detector.CheckHealth(plates); err != nil {
		return fmt.Errorf("plate detector unavailable: %w", err)
	}
	if err := detector.CheckHealth(chars); err != nil {
		return fmt.Errorf("character detector unavailable: %w", err)
	}
	return nil
}
