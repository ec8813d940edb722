package playback

import (
	"context"
	"fmt"
	"os/exec"
)

// CommandSink plays a WAV file by running an external player command
// with the file path appended to its arguments.
type CommandSink struct {
	command string
	args    []string
}

// NewCommandSink creates a sink invoking the given player, e.g.
// "aplay" or "afplay".
func NewCommandSink(command string, args ...string) (*CommandSink, error) {
	if command == "" {
		return nil, fmt.Errorf("playback: player command cannot be empty")
	}
	return &CommandSink{command: command, args: args}, nil
}

// Play runs the player and blocks until it exits or the context is
// cancelled, which kills the process.
func (s *CommandSink) Play(ctx context.Context, path string) error {
	args := append(append([]string{}, s.args...), path)
	cmd := exec.CommandContext(ctx, s.command, args...)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("player %s failed: %w", s.command, err)
	}
	return nil
}

// NopSink discards playback. Used when no player is configured.
type NopSink struct{}

// Play returns immediately unless the context is already cancelled.
func (NopSink) Play(ctx context.Context, path string) error {
	return ctx.Err()
}
