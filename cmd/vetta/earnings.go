package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbukum/vetta/config"
	"github.com/kbukum/vetta/earnings"
	"github.com/kbukum/vetta/media"
	"github.com/kbukum/vetta/transcription"
)

func newEarningsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "earnings",
		Short: "Ingest and process earnings calls",
	}
	cmd.AddCommand(newProcessCmd(c))
	return cmd
}

type processFlags struct {
	file        string
	ticker      string
	year        int
	quarter     earnings.Quarter
	language    string
	diarization bool
	numSpeakers uint32
	prompt      string
}

func newProcessCmd(c *cli) *cobra.Command {
	f := &processFlags{}
	cmd := &cobra.Command{
		Use:   "process",
		Short: "Process an audio/video file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runProcess(cmd, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.file, "file", "f", "", "Path to the audio or video file")
	fl.StringVarP(&f.ticker, "ticker", "t", "", "Company ticker symbol")
	fl.IntVarP(&f.year, "year", "y", 0, "Fiscal year")
	fl.VarP(&f.quarter, "quarter", "q", "Fiscal quarter: Q1, Q2, Q3 or Q4")
	fl.StringVar(&f.language, "language", "", "Spoken language (default from config, en)")
	fl.BoolVar(&f.diarization, "diarization", false, "Attribute segments to speakers")
	fl.Uint32Var(&f.numSpeakers, "num-speakers", 0, "Expected number of speakers (default from config, 2)")
	fl.StringVar(&f.prompt, "prompt", "", "Initial prompt priming the speech model")
	for _, name := range []string{"file", "ticker", "year", "quarter"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

// options starts from the configured request options and applies the
// flags the user set explicitly.
func (f *processFlags) options(cmd *cobra.Command, stt config.STTConfig) transcription.Options {
	opts := transcription.Options{
		Language:      stt.Language,
		Diarization:   stt.Diarization,
		NumSpeakers:   stt.NumSpeakers,
		InitialPrompt: stt.InitialPrompt,
	}
	fl := cmd.Flags()
	if fl.Changed("language") {
		opts.Language = f.language
	}
	if fl.Changed("diarization") {
		opts.Diarization = f.diarization
	}
	if fl.Changed("num-speakers") {
		opts.NumSpeakers = f.numSpeakers
	}
	if fl.Changed("prompt") {
		opts.InitialPrompt = f.prompt
	}
	return opts
}

func (c *cli) runProcess(cmd *cobra.Command, f *processFlags) error {
	app, err := c.app(cmd)
	if err != nil {
		return err
	}
	cfg := app.Cfg

	job := earnings.Job{
		File: f.file,
		Period: earnings.Period{
			Ticker:  strings.ToUpper(strings.TrimSpace(f.ticker)),
			Year:    f.year,
			Quarter: f.quarter,
		},
		Options: f.options(cmd, cfg.STT),
	}

	out := newRenderer(cmd.OutOrStdout())
	out.Banner()
	out.Target(job.Period, job.File, cfg.STT.Socket)

	return app.RunTask(cmd.Context(), func(ctx context.Context) error {
		stt, err := app.Transcriber(ctx)
		if err != nil {
			return err
		}
		proc := earnings.NewProcessor(stt, cfg.STT.Socket,
			earnings.WithValidator(media.NewValidator(media.WithMaxSizeMB(cfg.Media.MaxSizeMB))),
			earnings.WithMetrics(app.Metrics),
			earnings.WithProgress(out.Progress),
			earnings.WithStageHook(out.Stage),
		)

		sum, err := proc.Process(ctx, job)
		if err != nil {
			out.Failure(err)
			return reportedError{err}
		}
		out.Done(sum)
		return nil
	})
}
