package slides

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
)

// Poppler rasterizes PDF pages by shelling out to pdftoppm, one PNG per page
// at a fixed resolution. It is the system-tool collaborator of the pipeline;
// callers absorb its failures into placeholder slides.
type Poppler struct {
	bin string
}

func NewPoppler() *Poppler {
	return &Poppler{bin: "pdftoppm"}
}

func NewPopplerWithBinary(bin string) *Poppler {
	return &Poppler{bin: bin}
}

func (p *Poppler) Render(ctx context.Context, deck []byte) ([][]byte, error) {
	tmpDir, err := os.MkdirTemp("", "profreplay-slides-")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	pdfPath := filepath.Join(tmpDir, "deck.pdf")
	if err := os.WriteFile(pdfPath, deck, 0o600); err != nil {
		return nil, fmt.Errorf("write deck: %w", err)
	}

	outPrefix := filepath.Join(tmpDir, "slide")
	cmd := exec.CommandContext(ctx, p.bin,
		"-png",
		"-r", "100",
		"-scale-to-x", "1920",
		"-scale-to-y", "1080",
		pdfPath, outPrefix,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		// exec.ErrNotFound here means poppler-utils is not installed on the
		// host; surface that clearly so the missing system dependency is
		// diagnosable from the log line.
		return nil, fmt.Errorf("pdftoppm: %w: %s", err, string(out))
	}

	// pdftoppm zero-pads page numbers to a fixed width, so a lexical sort of
	// the produced files is page order.
	paths, err := filepath.Glob(outPrefix + "-*.png")
	if err != nil {
		return nil, fmt.Errorf("glob pages: %w", err)
	}
	sort.Strings(paths)

	pages := make([][]byte, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read page %s: %w", path, err)
		}
		pages = append(pages, data)
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no pages rendered")
	}
	return pages, nil
}
