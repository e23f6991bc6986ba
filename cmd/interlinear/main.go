package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/interlinear/internal/archive"
	"codeberg.org/snonux/interlinear/internal/cli"
	"codeberg.org/snonux/interlinear/internal/models"
	"codeberg.org/snonux/interlinear/internal/processor"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, args, flags)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, args []string, flags *cli.Flags) error {
	ctx := cmd.Context()

	// Config file and environment fill in flags not given on the command line
	cli.ApplyConfig(flags)

	logger, err := cli.NewLogger(flags.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	// Handle --list-languages flag
	if flags.ListLanguages {
		return processor.ListLanguages(os.Stdout, flags.Language)
	}

	// Handle --archive flag
	if flags.Archive {
		dest, err := archive.Archive(flags.HistoryDB)
		if err != nil {
			return fmt.Errorf("failed to archive history: %w", err)
		}
		fmt.Printf("History archived to: %s\n", dest)
		return nil
	}

	// Handle --list-models flag
	if flags.ListModels {
		lister := models.NewLister(cli.GetOpenAIKey(), flags.BaseURL)
		return lister.ListAvailableModels(ctx, os.Stdout)
	}

	// Handle --stdin flag; no provider is involved
	if flags.Stdin {
		return processor.FormatStdin(os.Stdin, os.Stdout, processor.NewFormatter(flags, logger))
	}

	// Create processor
	proc, err := processor.NewProcessor(ctx, flags, logger)
	if err != nil {
		return err
	}
	defer proc.Close()

	switch {
	case flags.ShowHistory > 0:
		return proc.ShowHistory(ctx, flags.ShowHistory)
	case flags.BatchFile != "":
		if err := proc.ProcessBatch(ctx); err != nil {
			return err
		}
	case len(args) > 0:
		if err := proc.ProcessSentence(ctx, args[0]); err != nil {
			return err
		}
	default:
		return cmd.Help()
	}

	// Generate Anki file if requested
	if flags.AnkiFile != "" {
		outputPath, err := proc.GenerateAnkiFile()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to generate Anki file: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "Anki import file created: %s\n", outputPath)
		}
	}

	return nil
}
