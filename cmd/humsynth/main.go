package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/humsynth/humsynth"
	"github.com/humsynth/humsynth/composer"
	"github.com/humsynth/humsynth/internal/log"
	"github.com/humsynth/humsynth/midiexport"
	"github.com/humsynth/humsynth/oto"
	"github.com/humsynth/humsynth/playback"
	"github.com/humsynth/humsynth/spectrum"
	"github.com/humsynth/humsynth/version"
)

const spectrogramRows = 24

type options struct {
	config      string
	output      string
	play        bool
	player      string
	spectrogram bool
	midi        string
	raw         bool
	seed        uint64
	noJitter    bool
}

func main() {
	_ = godotenv.Load() // a missing .env is fine
	configFile := flag.String("c", "", "Read the melody and percussion parameters from a .yml file. By default, the built-in clip is rendered.")
	play := flag.Bool("p", false, "Play the rendered clip (default behaviour when no output file is given).")
	player := flag.String("player", envOr("HUMSYNTH_PLAYER", "auto"), "Audio player: auto, exec, oto or none.")
	spectrogram := flag.Bool("spectrogram", false, "Print a spectrogram of the clip to standard output.")
	midiOut := flag.String("midi", "", "Also export the arrangement as a standard MIDI file.")
	rawOut := flag.Bool("raw", false, "Also write the clip as headerless 16-bit PCM next to the .wav file.")
	seed := flag.Uint64("seed", 0, "Seed of the timing jitter. 0 picks a random seed.")
	noJitter := flag.Bool("nojitter", false, "Disable the timing jitter; renders become deterministic.")
	watchFlag := flag.Bool("watch", false, "Render again every time the file given with -c changes.")
	logLevel := flag.String("loglevel", envOr("HUMSYNTH_LOG_LEVEL", "info"), "Log level: debug, info, warn, error or none.")
	versionFlag := flag.Bool("v", false, "Print version.")
	help := flag.Bool("h", false, "Show help.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.String())
		os.Exit(0)
	}
	if *help {
		flag.Usage()
		os.Exit(0)
	}
	if err := checkArgs(flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}
	level, ok := log.ParseLevel(*logLevel)
	logger := log.New(os.Stderr, level)
	if !ok {
		logger.Warnf("unknown log level %q, using %v", *logLevel, level)
	}
	opts := options{
		config:      *configFile,
		output:      flag.Arg(0),
		play:        *play,
		player:      *player,
		spectrogram: *spectrogram,
		midi:        *midiOut,
		raw:         *rawOut,
		seed:        *seed,
		noJitter:    *noJitter,
	}
	if opts.output == "" {
		opts.output = tempOutput()
		opts.play = true
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	var err error
	if *watchFlag {
		if opts.config == "" {
			logger.Errorf("-watch needs a config file given with -c")
			os.Exit(1)
		}
		err = watch(ctx, opts.config, logger, func(ctx context.Context) error {
			return run(ctx, opts, logger)
		})
	} else {
		err = run(ctx, opts, logger)
	}
	if err != nil {
		logger.Errorf("%v", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, logger *log.Logger) error {
	cfg := humsynth.DefaultConfig()
	if opts.config != "" {
		var err error
		if cfg, err = humsynth.LoadConfig(opts.config); err != nil {
			return err
		}
	}
	c, err := composer.New(cfg, newRand(opts, logger))
	if err != nil {
		return err
	}
	arr, mix, err := c.Compose()
	if err != nil {
		return fmt.Errorf("could not render the clip: %w", err)
	}
	logger.Infof("rendered %v melody and %v percussion notes, %.1f s", arr.Count(composer.Melody), arr.Count(composer.Percussion), arr.Duration)
	combined := mix.Combined()
	if humsynth.IsSilent(combined) {
		logger.Warnf("the mix is silent")
	}
	samples := humsynth.Normalize(combined)
	if err := humsynth.WriteWav(opts.output, samples, cfg.SampleRate); err != nil {
		return err
	}
	logger.Infof("wrote %v", opts.output)
	if opts.raw {
		raw, err := humsynth.Raw(samples)
		if err != nil {
			return fmt.Errorf("could not generate .raw file: %w", err)
		}
		path := withExt(opts.output, ".raw")
		if err := os.WriteFile(path, raw, 0644); err != nil {
			return fmt.Errorf("%w: could not write %v: %w", humsynth.ErrEncoding, path, err)
		}
		logger.Infof("wrote %v", path)
	}
	if opts.midi != "" {
		if err := midiexport.WriteFile(opts.midi, arr, cfg.Melody.StepTime); err != nil {
			return err
		}
		logger.Infof("wrote %v", opts.midi)
	}
	if opts.spectrogram {
		s, err := spectrum.New(samples, cfg.SampleRate, spectrum.DefaultWindow)
		if err != nil {
			return fmt.Errorf("could not compute spectrogram: %w", err)
		}
		if err := spectrum.Render(os.Stdout, s, spectrogramRows); err != nil {
			return fmt.Errorf("could not print spectrogram: %w", err)
		}
	}
	if !opts.play {
		return nil
	}
	p, err := newPlayer(opts.player)
	if errors.Is(err, humsynth.ErrPlaybackUnavailable) {
		logger.Warnf("could not play %v: %v", opts.output, err)
		return nil
	}
	if err != nil {
		return err
	}
	if p == nil {
		return nil
	}
	if err := p.Play(ctx, opts.output); err != nil {
		logger.Warnf("could not play %v: %v", opts.output, err)
	}
	return nil
}

// checkArgs accepts at most one positional argument, the output file.
func checkArgs(args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("expected at most one output file, got %d arguments", len(args))
	}
	return nil
}

// newPlayer returns the player with the given name; "none" gives nil.
func newPlayer(name string) (humsynth.Player, error) {
	switch strings.ToLower(name) {
	case "auto", "":
		var chain playback.Chain
		if c, err := playback.FindCommand(); err == nil {
			chain = append(chain, c)
		}
		return append(chain, oto.NewPlayer()), nil
	case "exec":
		c, err := playback.FindCommand()
		if err != nil {
			return nil, err
		}
		return c, nil
	case "oto":
		return oto.NewPlayer(), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: unknown player %q", humsynth.ErrInvalidParameter, name)
	}
}

func newRand(opts options, logger *log.Logger) humsynth.Rand {
	if opts.noJitter {
		return humsynth.NoJitter
	}
	seed := opts.seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	logger.Debugf("jitter seed %v", seed)
	return rand.New(rand.NewPCG(seed, seed))
}

func tempOutput() string {
	return filepath.Join(os.TempDir(), "humsynth-"+uuid.NewString()+".wav")
}

func withExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "humsynth renders a short procedural clip of a plucked melody over a kick and hi-hat beat.\nUsage: %s [flags] [output.wav]\n", os.Args[0])
	flag.PrintDefaults()
}
