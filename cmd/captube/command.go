package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/ytget/captube/internal/app"
	"github.com/ytget/captube/internal/config"
	"github.com/ytget/captube/internal/download"
	"github.com/ytget/captube/internal/model"
	"github.com/ytget/captube/internal/platform"
)

// Exit codes
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// Flag names
const (
	flagMode        = "mode"
	flagDest        = "dest"
	flagBackend     = "backend"
	flagAudioFormat = "audio-format"
	flagTimeout     = "timeout"
	flagOpen        = "open"
	flagEnvFile     = "env-file"
)

// newService builds the executor; tests replace it
var newService = func(opts config.Options, logger *log.Logger) (download.Executor, error) {
	svc, err := app.NewService(opts, logger)
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// openFolder reveals the saved file; tests replace it
var openFolder = platform.OpenInFileExplorer

// usageError marks problems with arguments, flags or configuration
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// failureError carries a FAILURE result
type failureError struct {
	result model.DownloadResult
}

func (e *failureError) Error() string {
	return e.result.Err.Error()
}

type cliFlags struct {
	mode        string
	dest        string
	backend     string
	audioFormat string
	timeout     string
	open        bool
	envFile     string
}

// run executes the command line and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer, logger *log.Logger) int {
	if args == nil {
		// cobra falls back to os.Args for a nil slice
		args = []string{}
	}
	cmd := newRootCmd(stdout, stderr, logger)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	var failure *failureError
	if errors.As(err, &failure) {
		fmt.Fprintf(stderr, "captube: download failed: %v\n", failure)
		return exitFailure
	}

	fmt.Fprintf(stderr, "captube: %v\n", err)
	var usage *usageError
	if errors.As(err, &usage) {
		fmt.Fprintf(stderr, "Run 'captube --help' for usage.\n")
		return exitUsage
	}
	return exitFailure
}

func newRootCmd(stdout, stderr io.Writer, logger *log.Logger) *cobra.Command {
	flags := &cliFlags{}

	cmd := &cobra.Command{
		Use:     "captube [flags] <url>",
		Short:   "Downloads a YouTube video or its audio track",
		Example: `captube -m audio -d ~/Music https://www.youtube.com/watch?v=dQw4w9WgXcQ`,
		Version: version,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usagef("expected exactly one URL, got %d arguments", len(args))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownload(cmd, flags, args[0], stdout, stderr, logger)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	f := cmd.Flags()
	f.StringVarP(&flags.mode, flagMode, "m", string(model.ModeVideo), "What to download: video, audio or video-only")
	f.StringVarP(&flags.dest, flagDest, "d", "", "Destination directory (default ./downloads)")
	f.StringVarP(&flags.backend, flagBackend, "b", "", "Fetch backend: innertube, kkdai or ytdlp")
	f.StringVar(&flags.audioFormat, flagAudioFormat, "", "Audio output: original or mp3 (mp3 needs ffmpeg)")
	f.StringVar(&flags.timeout, flagTimeout, "", "Network timeout, e.g. 90s or 120")
	f.BoolVar(&flags.open, flagOpen, false, "Reveal the file in the file manager when done")
	f.StringVar(&flags.envFile, flagEnvFile, "", "Read settings from this dotenv file instead of .env")

	return cmd
}

// resolveOptions layers flags over the environment
func resolveOptions(cmd *cobra.Command, flags *cliFlags) (config.Options, model.Mode, error) {
	var files []string
	if flags.envFile != "" {
		files = append(files, flags.envFile)
	}
	opts, err := config.LoadEnv(files...)
	if err != nil {
		return opts, "", &usageError{err: err}
	}

	changed := cmd.Flags().Changed
	if changed(flagDest) {
		opts.Destination = flags.dest
	}
	if changed(flagBackend) {
		opts.Backend = flags.backend
	}
	if changed(flagAudioFormat) {
		opts.AudioFormat = flags.audioFormat
	}
	if changed(flagTimeout) {
		timeout, err := config.ParseTimeout(flags.timeout)
		if err != nil {
			return opts, "", usagef("--%s: %v", flagTimeout, err)
		}
		opts.HTTPTimeout = timeout
	}
	if changed(flagOpen) {
		opts.OpenFolder = flags.open
	}

	opts, err = opts.Normalize()
	if err != nil {
		return opts, "", &usageError{err: err}
	}

	mode, err := model.ParseMode(flags.mode)
	if err != nil {
		return opts, "", usagef("--%s: %v", flagMode, err)
	}
	return opts, mode, nil
}

func runDownload(cmd *cobra.Command, flags *cliFlags, sourceURL string, stdout, stderr io.Writer, logger *log.Logger) error {
	opts, mode, err := resolveOptions(cmd, flags)
	if err != nil {
		return err
	}

	svc, err := newService(opts, logger)
	if err != nil {
		return fmt.Errorf("start %s backend: %w", opts.Backend, err)
	}

	req := model.DownloadRequest{
		SourceURL:      sourceURL,
		Mode:           mode,
		DestinationDir: opts.Destination,
	}

	printer := newProgressPrinter(stderr)
	done := make(chan model.DownloadResult, 1)
	svc.ExecuteAsync(cmd.Context(), req, printer.Update, func(result model.DownloadResult) {
		done <- result
	})
	result := <-done
	printer.Finish()

	if !result.OK() {
		return &failureError{result: result}
	}

	fmt.Fprintln(stdout, result.OutputPath)
	if opts.OpenFolder {
		if err := openFolder(result.OutputPath); err != nil {
			logger.Printf("reveal %s: %v", result.OutputPath, err)
		}
	}
	return nil
}
