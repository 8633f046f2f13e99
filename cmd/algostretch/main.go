// Command algostretch is a thin CLI shell around dsp/stretch, offline file
// time-stretch/pitch-shift through its single stretch subcommand. The shell and its
// flag parsing are explicitly out of scope for dsp/stretch itself
// (spec.md §1): this command is the "external collaborator" the spec
// assumes exists.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-r3stretch/dsp/stretch"
	"github.com/cwbudde/algo-r3stretch/internal/wavio"
)

type stretchOptions struct {
	timeRatio    float64
	pitchScale   float64
	formantScale float64
	preserveForm bool
	highQuality  bool
	highConsist  bool
	channelsLock bool
	verbose      bool
}

func main() {
	opts := &stretchOptions{timeRatio: 1.0, pitchScale: 1.0}

	rootCmd := &cobra.Command{
		Use:           "algostretch",
		Short:         "Phase-vocoder time-stretch and pitch-shift",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	stretchCmd := &cobra.Command{
		Use:   "stretch <input.wav> <output.wav>",
		Short: "Time-stretch/pitch-shift a WAV file offline",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStretch(args[0], args[1], opts)
		},
	}

	stretchCmd.Flags().Float64VarP(&opts.timeRatio, "time-ratio", "t", 1.0, "output duration / input duration")
	stretchCmd.Flags().Float64VarP(&opts.pitchScale, "pitch-scale", "p", 1.0, "output frequency / input frequency")
	stretchCmd.Flags().Float64VarP(&opts.formantScale, "formant-scale", "f", 0, "formant scale (0 = derive from pitch)")
	stretchCmd.Flags().BoolVar(&opts.preserveForm, "preserve-formants", false, "enable cepstral formant preservation")
	stretchCmd.Flags().BoolVar(&opts.highQuality, "high-quality", false, "use the higher-quality resampler core")
	stretchCmd.Flags().BoolVar(&opts.highConsist, "high-consistency", false, "favor smooth ratio updates over absolute resampler quality")
	stretchCmd.Flags().BoolVar(&opts.channelsLock, "channels-together", false, "lock transient guidance across channels")
	stretchCmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log engine advisories to stderr")

	rootCmd.AddCommand(stretchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "algostretch:", err)
		os.Exit(1)
	}
}

func runStretch(inPath, outPath string, opts *stretchOptions) error {
	samples, sampleRate, err := wavio.Read(inPath)
	if err != nil {
		return err
	}

	options := stretch.OptionFormantShifted
	if opts.preserveForm {
		options = stretch.OptionFormantPreserved
	}

	if opts.highQuality {
		options |= stretch.OptionPitchHighQuality
	}

	if opts.highConsist {
		options |= stretch.OptionPitchHighConsistency
	}

	if opts.channelsLock {
		options |= stretch.OptionChannelsTogether
	}

	var logger stretch.Logger
	if opts.verbose {
		logger = stretch.NewStdLogger(stretch.SeverityInfo)
	}

	params := stretch.Parameters{
		SampleRate: float64(sampleRate),
		Channels:   len(samples),
		Options:    options,
		RealTime:   false,
		Logger:     logger,
	}

	engine, err := stretch.New(params, opts.timeRatio, opts.pitchScale)
	if err != nil {
		return fmt.Errorf("algostretch: %w", err)
	}

	if opts.formantScale != 0 {
		if err := engine.SetFormantScale(opts.formantScale); err != nil {
			return err
		}
	}

	engine.SetExpectedInputDuration(len(samples[0]))

	if err := engine.Process(samples, true); err != nil {
		return fmt.Errorf("algostretch: process: %w", err)
	}

	out := make([][]float64, len(samples))
	chunk := make([][]float64, len(samples))

	for c := range out {
		chunk[c] = make([]float64, 4096)
	}

	for {
		n, err := engine.Retrieve(chunk)
		if err != nil {
			return fmt.Errorf("algostretch: retrieve: %w", err)
		}

		for c := range out {
			out[c] = append(out[c], chunk[c][:n]...)
		}

		if engine.Available() < 0 {
			break
		}
	}

	return wavio.Write(outPath, out, sampleRate)
}
