package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/five82/drymix"
	"github.com/five82/drymix/internal/config"
	derrors "github.com/five82/drymix/internal/errors"
	"github.com/five82/drymix/internal/logging"
)

type buildFlags struct {
	inputFlags

	output      string
	duration    string
	fixed       bool
	autofill    bool
	jobs        int
	shuffleEach bool
	mode        string
	blockSize   int
	repeat      int
	duplicate   []int
	dupTimes    int
	seed        uint64

	resolution string
	fps        string
	uniform    bool
	encoder    string
	crf        int
	quickCopy  bool
	outputMode string

	audio        string
	audioBitrate string
	trimToAudio  bool

	keepWorkDir bool
	logDir      string
	noLog       bool
}

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var f buildFlags

	cmd := &cobra.Command{
		Use:   "build [clips...]",
		Short: "Build one or more shuffled mixes",
		Long: `Build joins the input clips into one or more mixes. Each job reshuffles the
clips, optionally repeats them until the target duration is reached, and joins
them with ffmpeg. Flags override values from the configuration file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			f.apply(cmd.Flags(), &cfg)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return runBuild(cmd, ctx, &f, cfg, args)
		},
	}

	f.register(cmd)
	flags := cmd.Flags()
	flags.StringVarP(&f.output, "output", "o", config.DefaultOutputName, "Output file; jobs after the first are numbered")
	flags.StringVarP(&f.duration, "duration", "d", config.DefaultTarget, "Target duration (HH:MM:SS)")
	flags.BoolVar(&f.fixed, "fixed-duration", true, "Trim each mix to the target duration")
	flags.BoolVar(&f.autofill, "autofill", true, "Repeat clips until the target duration is reached")
	flags.IntVarP(&f.jobs, "jobs", "j", config.DefaultJobs, fmt.Sprintf("Number of mixes to build (1-%d)", config.MaxJobs))
	flags.BoolVar(&f.shuffleEach, "shuffle-each", true, "Reshuffle the clips for every job")
	flags.StringVar(&f.mode, "mode", "full", "Shuffle mode: full or block")
	flags.IntVar(&f.blockSize, "block-size", 0, "Block size for block mode (0 infers it)")
	flags.IntVar(&f.repeat, "repeat", 1, "Repeat the clip list N times before shuffling")
	flags.IntSliceVar(&f.duplicate, "duplicate", nil, "Clip numbers (1-based, input order) to duplicate")
	flags.IntVar(&f.dupTimes, "duplicate-times", 2, "Total copies of each duplicated clip")
	flags.Uint64Var(&f.seed, "seed", 0, "Seed for reproducible shuffles")

	flags.StringVar(&f.resolution, "resolution", "original", "Output resolution: original, 1280x720 (720p), 1920x1080 (1080p), 2560x1440 (1440p), 3840x2160 (2160p)")
	flags.StringVar(&f.fps, "fps", "original", "Output frame rate: original, 24, 25, 30, 50, 60")
	flags.BoolVar(&f.uniform, "uniform", false, "Clips already share one format; skip scaling and frame rate changes")
	flags.StringVar(&f.encoder, "encoder", "x264", "Video encoder: x264, copy, nvenc, qsv, amf")
	flags.IntVar(&f.crf, "crf", config.DefaultCRF, fmt.Sprintf("Constant rate factor (0-%d)", config.MaxCRF))
	flags.BoolVar(&f.quickCopy, "quick-copy", false, "Stream copy when no resize or frame rate change is requested")
	flags.StringVar(&f.outputMode, "output-mode", "copy", "copy joins clips as-is; normalize re-encodes each clip first")

	flags.StringVar(&f.audio, "audio", "", "Replace clip audio with this track")
	flags.StringVar(&f.audioBitrate, "audio-bitrate", config.DefaultAudioBitrate, "AAC bitrate for the replacement track")
	flags.BoolVar(&f.trimToAudio, "trim-to-audio", false, "End each mix when the audio track ends")

	flags.BoolVar(&f.keepWorkDir, "keep-work-dir", false, "Keep a failed job's work directory")
	flags.StringVarP(&f.logDir, "log-dir", "l", "", "Log directory")
	flags.BoolVar(&f.noLog, "no-log", false, "Disable log file creation")
	return cmd
}

// apply copies every flag the user set onto cfg.
func (f *buildFlags) apply(flags *pflag.FlagSet, cfg *config.Config) {
	set := func(name string, fn func()) {
		if flags.Changed(name) {
			fn()
		}
	}
	set("output", func() { cfg.Output.Path = f.output })
	set("duration", func() { cfg.Duration.Target = f.duration })
	set("fixed-duration", func() { cfg.Duration.Fixed = f.fixed })
	set("autofill", func() { cfg.Duration.Autofill = f.autofill })
	set("jobs", func() { cfg.Output.Jobs = f.jobs })
	set("shuffle-each", func() { cfg.Order.ShuffleEachJob = f.shuffleEach })
	set("mode", func() { cfg.Order.Mode = f.mode })
	set("block-size", func() { cfg.Order.BlockSize = f.blockSize })
	set("repeat", func() { cfg.Order.Repeat = f.repeat })
	set("duplicate", func() { cfg.Order.Duplicate = f.duplicate })
	set("duplicate-times", func() { cfg.Order.DuplicateTimes = f.dupTimes })
	set("resolution", func() { cfg.Video.Resolution = f.resolution })
	set("fps", func() { cfg.Video.FPS = f.fps })
	set("uniform", func() { cfg.Video.Uniform = f.uniform })
	set("encoder", func() { cfg.Video.Encoder = f.encoder })
	set("crf", func() { cfg.Video.CRF = f.crf })
	set("quick-copy", func() { cfg.Video.QuickCopy = f.quickCopy })
	set("output-mode", func() { cfg.Output.Mode = f.outputMode })
	set("audio", func() { cfg.Audio.Track = f.audio })
	set("audio-bitrate", func() { cfg.Audio.Bitrate = f.audioBitrate })
	set("trim-to-audio", func() { cfg.Audio.TrimToTrack = f.trimToAudio })
	set("keep-work-dir", func() { cfg.Output.KeepWorkDir = f.keepWorkDir })
	set("log-dir", func() { cfg.Logging.Dir = f.logDir })
	set("no-log", func() { cfg.Logging.Disabled = f.noLog })
}

func runBuild(cmd *cobra.Command, ctx *commandContext, f *buildFlags, cfg config.Config, args []string) error {
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if *ctx.verbose {
		level = slog.LevelDebug
	}
	logDir, err := config.ExpandPath(cfg.Logging.Dir)
	if err != nil {
		return fmt.Errorf("resolve log directory: %w", err)
	}
	fileLog, err := logging.Setup(logDir, level, cfg.Logging.Disabled)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	logger := logging.Discard()
	if fileLog != nil {
		defer func() { _ = fileLog.Close() }()
		logger = fileLog.Logger
	}
	logging.SetGlobal(logger)

	clips, err := f.clips(args, logger.Logger)
	if err != nil {
		return err
	}

	opts := []drymix.Option{
		drymix.WithFFmpegPath(cfg.Tools.FFmpeg),
		drymix.WithFFprobePath(cfg.Tools.FFprobe),
		drymix.WithReporter(newReporter(cmd.OutOrStdout(), f.jsonMode, *ctx.verbose)),
		drymix.WithLogger(logger.Logger),
	}
	if cmd.Flags().Changed("seed") {
		opts = append(opts, drymix.WithSeed(f.seed))
	}
	m := drymix.New(opts...)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("stopping batch", "signal", sig.String())
			m.Stop()
		case <-done:
		}
	}()

	if !m.Start(cmd.Context(), drymix.Request{Clips: clips, Config: cfg}, nil) {
		return errors.New("a batch is already running")
	}
	return buildOutcome(m.Wait())
}

// buildOutcome turns a finished batch into the command's error.
func buildOutcome(result *drymix.Result, err error) error {
	if err != nil {
		return err
	}
	if result != nil && result.Cancelled {
		return derrors.NewCancelledError()
	}
	return nil
}
