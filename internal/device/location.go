package device

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"hrclient/internal/checkin"
)

// StaticLocation serves a fixed position, for office kiosks and tests.
type StaticLocation struct {
	Position   checkin.Position
	Configured bool
}

func (l *StaticLocation) Current(ctx context.Context) (checkin.Position, error) {
	if !l.Configured {
		return checkin.Position{}, fmt.Errorf("%w: no location source configured", checkin.ErrPermissionDenied)
	}
	return l.Position, nil
}

// ExecLocation shells out to a positioning tool (gpspipe, termux-location,
// ...) and parses its stdout: either a JSON object with longitude/latitude
// fields or two whitespace-separated numbers, longitude first.
type ExecLocation struct {
	Command []string
}

func (l *ExecLocation) Current(ctx context.Context) (checkin.Position, error) {
	if len(l.Command) == 0 {
		return checkin.Position{}, fmt.Errorf("%w: no location command configured", checkin.ErrPermissionDenied)
	}
	cmd := exec.CommandContext(ctx, l.Command[0], l.Command[1:]...)
	output, err := cmd.Output()
	if err != nil {
		return checkin.Position{}, fmt.Errorf("device: location command: %w", err)
	}
	return parsePosition(output)
}

func parsePosition(output []byte) (checkin.Position, error) {
	text := strings.TrimSpace(string(output))

	var parsed struct {
		Longitude *float64 `json:"longitude"`
		Latitude  *float64 `json:"latitude"`
	}
	if err := json.Unmarshal([]byte(text), &parsed); err == nil {
		if parsed.Longitude == nil || parsed.Latitude == nil {
			return checkin.Position{}, fmt.Errorf("device: location output missing longitude or latitude")
		}
		return checkin.Position{Longitude: *parsed.Longitude, Latitude: *parsed.Latitude}, nil
	}

	fields := strings.Fields(text)
	if len(fields) != 2 {
		return checkin.Position{}, fmt.Errorf("device: unrecognized location output %q", text)
	}
	lon, lonErr := strconv.ParseFloat(fields[0], 64)
	lat, latErr := strconv.ParseFloat(fields[1], 64)
	if lonErr != nil || latErr != nil {
		return checkin.Position{}, fmt.Errorf("device: unrecognized location output %q", text)
	}
	return checkin.Position{Longitude: lon, Latitude: lat}, nil
}
