package server

import (
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cwbudde/ssimcmp/internal/imgio"
	"github.com/cwbudde/ssimcmp/internal/ssim"
	"github.com/google/uuid"
)

// CompareResponse is the JSON body returned for a successful comparison.
type CompareResponse struct {
	ID        string  `json:"id"`
	Score     float64 `json:"score"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	ElapsedMs float64 `json:"elapsedMs"`
}

// handleCompare handles POST /api/v1/compare. The request is multipart
// form data with two file parts, "reference" and "candidate", plus
// optional form fields "window", "k1", "k2" and "bitDepth". Malformed
// uploads and input-shape failures map to 400; the too-small-to-window
// case is not a failure and returns a score of 1.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := uuid.New().String()
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	if err := r.ParseMultipartForm(s.maxBody); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid multipart form: %v", err))
		return
	}

	ref, refW, refH, err := decodePart(r, "reference")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	cand, candW, candH, err := decodePart(r, "candidate")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if refW != candW || refH != candH {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("dimension mismatch: reference %dx%d, candidate %dx%d", refW, refH, candW, candH))
		return
	}

	opts, err := parseOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	score, err := ssim.ComputeParallel(ref, cand, refW, refH, opts, s.workers)
	if err != nil {
		// Compute only fails on input shape, never transiently.
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	elapsed := time.Since(start)
	slog.Info("Comparison complete",
		"id", id,
		"width", refW,
		"height", refH,
		"score", score,
		"elapsed", elapsed,
	)

	writeJSON(w, http.StatusOK, CompareResponse{
		ID:        id,
		Score:     score,
		Width:     refW,
		Height:    refH,
		ElapsedMs: float64(elapsed.Microseconds()) / 1000,
	})
}

// decodePart reads one uploaded file part and converts it to a greyscale
// sample buffer.
func decodePart(r *http.Request, field string) ([]uint16, int, int, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("missing file part %q", field)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to decode %q: %v", field, err)
	}

	pix, w, h := imgio.FromImage(img)
	return pix, w, h, nil
}

// parseOptions reads the optional comparison parameters from the form.
// Absent fields keep their zero value and resolve to defaults inside the
// ssim package; unrecognized fields are ignored.
func parseOptions(r *http.Request) (*ssim.Options, error) {
	opts := &ssim.Options{}

	if v := r.FormValue("window"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid window %q", v)
		}
		opts.WindowSize = n
	}
	if v := r.FormValue("k1"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid k1 %q", v)
		}
		opts.K1 = f
	}
	if v := r.FormValue("k2"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid k2 %q", v)
		}
		opts.K2 = f
	}
	if v := r.FormValue("bitDepth"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid bitDepth %q", v)
		}
		opts.BitDepth = n
	}

	return opts, nil
}
