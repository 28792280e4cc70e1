package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwbudde/ssimcmp/internal/imgio"
	"github.com/cwbudde/ssimcmp/internal/report"
	"github.com/cwbudde/ssimcmp/internal/ssim"
	"github.com/spf13/cobra"
)

var (
	batchRefPath  string
	batchDir      string
	batchOutPath  string
	batchWindow   int
	batchK1       float64
	batchK2       float64
	batchBitDepth int
	batchWorkers  int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Compare a reference against a directory of images",
	Long: `Compares one reference image against every image in a directory and
writes the scores to a JSON report. Candidates that cannot be compared
are recorded in the report with an error instead of aborting the batch.`,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVar(&batchRefPath, "ref", "", "Reference image path (required)")
	batchCmd.Flags().StringVar(&batchDir, "dir", "", "Directory of candidate images (required)")
	batchCmd.Flags().StringVar(&batchOutPath, "out", "report.json", "Report output path")
	batchCmd.Flags().IntVar(&batchWindow, "window", ssim.DefaultWindowSize, "Sliding window side length")
	batchCmd.Flags().Float64Var(&batchK1, "k1", ssim.DefaultK1, "SSIM stability constant k1")
	batchCmd.Flags().Float64Var(&batchK2, "k2", ssim.DefaultK2, "SSIM stability constant k2")
	batchCmd.Flags().IntVar(&batchBitDepth, "bit-depth", ssim.DefaultBitDepth, "Sample bit depth (dynamic range 2^n-1)")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 1, "Evaluation goroutines per comparison (1 = sequential)")

	batchCmd.MarkFlagRequired("ref")
	batchCmd.MarkFlagRequired("dir")
	rootCmd.AddCommand(batchCmd)
}

// isImagePath reports whether a file name has a decodable image extension.
func isImagePath(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg":
		return true
	}
	return false
}

// batchEntry compares one candidate against the already-loaded reference.
// Failures become report entries, never batch aborts.
func batchEntry(ref []uint16, refW, refH int, candPath string, opts *ssim.Options, workers int) report.Entry {
	cand, candW, candH, err := imgio.Load(candPath)
	if err != nil {
		return report.Entry{Path: candPath, Err: err.Error()}
	}
	if candW != refW || candH != refH {
		return report.Entry{
			Path: candPath,
			Err:  fmt.Sprintf("dimension mismatch: reference %dx%d, candidate %dx%d", refW, refH, candW, candH),
		}
	}

	score, err := ssim.ComputeParallel(ref, cand, refW, refH, opts, workers)
	if err != nil {
		return report.Entry{Path: candPath, Err: err.Error()}
	}
	return report.Entry{Path: candPath, Score: score, Width: candW, Height: candH}
}

func runBatch(cmd *cobra.Command, args []string) error {
	ref, refW, refH, err := imgio.Load(batchRefPath)
	if err != nil {
		return fmt.Errorf("failed to load reference: %w", err)
	}

	entries, err := os.ReadDir(batchDir)
	if err != nil {
		return fmt.Errorf("failed to read candidate directory: %w", err)
	}

	opts := &ssim.Options{
		WindowSize: batchWindow,
		K1:         batchK1,
		K2:         batchK2,
		BitDepth:   batchBitDepth,
	}

	rep := report.New(batchRefPath, report.Options{
		WindowSize: batchWindow,
		K1:         batchK1,
		K2:         batchK2,
		BitDepth:   batchBitDepth,
	})

	slog.Info("Starting batch comparison", "reference", batchRefPath, "dir", batchDir)

	for _, entry := range entries {
		if entry.IsDir() || !isImagePath(entry.Name()) {
			continue
		}
		candPath := filepath.Join(batchDir, entry.Name())
		e := batchEntry(ref, refW, refH, candPath, opts, batchWorkers)
		if e.Err != "" {
			slog.Warn("Candidate skipped", "path", candPath, "error", e.Err)
		} else {
			slog.Debug("Candidate compared", "path", candPath, "score", e.Score)
		}
		rep.Add(e)
	}

	if err := report.Write(batchOutPath, rep); err != nil {
		return err
	}

	slog.Info("Batch complete",
		"compared", len(rep.Entries)-rep.Failed(),
		"failed", rep.Failed(),
		"report", batchOutPath,
	)

	fmt.Printf("Wrote %s (%d compared, %d failed)\n", batchOutPath, len(rep.Entries)-rep.Failed(), rep.Failed())
	return nil
}
