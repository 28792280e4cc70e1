package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/cwbudde/ssimcmp/internal/imgio"
	"github.com/cwbudde/ssimcmp/internal/ssim"
	"github.com/spf13/cobra"
)

var (
	compareRefPath  string
	compareCandPath string
	compareWindow   int
	compareK1       float64
	compareK2       float64
	compareBitDepth int
	compareWorkers  int
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare two images",
	Long:  `Computes the mean SSIM of two equally-sized greyscale images and prints the score.`,
	RunE:  runCompare,
}

func init() {
	compareCmd.Flags().StringVar(&compareRefPath, "ref", "", "Reference image path (required)")
	compareCmd.Flags().StringVar(&compareCandPath, "cand", "", "Candidate image path (required)")
	compareCmd.Flags().IntVar(&compareWindow, "window", ssim.DefaultWindowSize, "Sliding window side length")
	compareCmd.Flags().Float64Var(&compareK1, "k1", ssim.DefaultK1, "SSIM stability constant k1")
	compareCmd.Flags().Float64Var(&compareK2, "k2", ssim.DefaultK2, "SSIM stability constant k2")
	compareCmd.Flags().IntVar(&compareBitDepth, "bit-depth", ssim.DefaultBitDepth, "Sample bit depth (dynamic range 2^n-1)")
	compareCmd.Flags().IntVar(&compareWorkers, "workers", 1, "Evaluation goroutines (1 = sequential)")

	compareCmd.MarkFlagRequired("ref")
	compareCmd.MarkFlagRequired("cand")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	ref, refW, refH, err := imgio.Load(compareRefPath)
	if err != nil {
		return fmt.Errorf("failed to load reference: %w", err)
	}
	cand, candW, candH, err := imgio.Load(compareCandPath)
	if err != nil {
		return fmt.Errorf("failed to load candidate: %w", err)
	}
	if refW != candW || refH != candH {
		return fmt.Errorf("dimension mismatch: reference %dx%d, candidate %dx%d", refW, refH, candW, candH)
	}

	opts := &ssim.Options{
		WindowSize: compareWindow,
		K1:         compareK1,
		K2:         compareK2,
		BitDepth:   compareBitDepth,
	}

	start := time.Now()
	score, err := ssim.ComputeParallel(ref, cand, refW, refH, opts, compareWorkers)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	slog.Info("Comparison complete",
		"reference", compareRefPath,
		"candidate", compareCandPath,
		"width", refW,
		"height", refH,
		"score", score,
		"elapsed", elapsed,
	)

	fmt.Printf("%.6f\n", score)
	return nil
}
