package media

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// DurationProber reports the playable duration of a local media file.
type DurationProber interface {
	ProbeDuration(ctx context.Context, localPath string) (float64, error)
}

// FFProbe probes media files by shelling out to ffprobe.
type FFProbe struct {
	// Path is the ffprobe binary, defaulting to "ffprobe" on PATH.
	Path string
}

// NewFFProbe constructs a prober using the given binary path.
func NewFFProbe(path string) *FFProbe {
	if strings.TrimSpace(path) == "" {
		path = "ffprobe"
	}
	return &FFProbe{Path: path}
}

// ProbeDuration returns the container duration in seconds.
func (p *FFProbe) ProbeDuration(ctx context.Context, localPath string) (float64, error) {
	cmd := exec.CommandContext(ctx, p.Path,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		localPath,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return 0, fmt.Errorf("ffprobe %s: %s", localPath, msg)
	}

	raw := strings.TrimSpace(stdout.String())
	duration, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: parse duration %q: %w", localPath, raw, err)
	}
	return duration, nil
}
