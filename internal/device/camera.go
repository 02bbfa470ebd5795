// Package device provides the host-side camera and location backends for the
// check-in flow. A headless client has no platform permission prompt, so
// "permission denied" maps to the capability being unconfigured or the
// underlying tool refusing access.
package device

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"os/exec"
	"path/filepath"

	"hrclient/internal/checkin"
)

// FileCamera captures from a prepared snapshot file, for setups where another
// process keeps a current webcam frame on disk.
type FileCamera struct {
	Path string
}

func (c *FileCamera) Acquire(ctx context.Context) (checkin.Camera, error) {
	if c.Path == "" {
		return nil, fmt.Errorf("%w: no camera source configured", checkin.ErrPermissionDenied)
	}
	if _, err := os.Stat(c.Path); err != nil {
		return nil, fmt.Errorf("%w: snapshot %s unavailable", checkin.ErrPermissionDenied, c.Path)
	}
	return &fileCameraSession{path: c.Path}, nil
}

type fileCameraSession struct {
	path string
}

func (s *fileCameraSession) Capture(ctx context.Context) (image.Image, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("device: open snapshot: %w", err)
	}
	defer file.Close()

	frame, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("device: decode snapshot: %w", err)
	}
	return frame, nil
}

func (s *fileCameraSession) Release() error {
	return nil
}

// ExecCamera shells out to a capture tool (fswebcam, libcamera-still, ...)
// that writes a frame to the output path passed as its final argument.
type ExecCamera struct {
	Command []string
}

func (c *ExecCamera) Acquire(ctx context.Context) (checkin.Camera, error) {
	if len(c.Command) == 0 {
		return nil, fmt.Errorf("%w: no capture command configured", checkin.ErrPermissionDenied)
	}
	dir, err := os.MkdirTemp("", "hrctl-capture-")
	if err != nil {
		return nil, fmt.Errorf("device: capture workspace: %w", err)
	}
	return &execCameraSession{command: c.Command, dir: dir}, nil
}

type execCameraSession struct {
	command []string
	dir     string
}

func (s *execCameraSession) Capture(ctx context.Context) (image.Image, error) {
	out := filepath.Join(s.dir, "frame.jpg")
	args := append(append([]string{}, s.command[1:]...), out)
	cmd := exec.CommandContext(ctx, s.command[0], args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("device: capture command: %w: %s", err, output)
	}

	file, err := os.Open(out)
	if err != nil {
		return nil, fmt.Errorf("device: capture output: %w", err)
	}
	defer file.Close()

	frame, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("device: decode capture: %w", err)
	}
	return frame, nil
}

func (s *execCameraSession) Release() error {
	return os.RemoveAll(s.dir)
}
