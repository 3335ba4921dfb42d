// Package speech is the one-way voice channel: best effort, no
// queueing, no completion feedback. A new utterance always preempts
// the one still playing.
package speech

import (
	"os/exec"
	"strings"
	"sync"
)

// DefaultCommand is the zh voice at a slightly slowed rate, matching
// the app's spoken register for elderly users.
const DefaultCommand = "espeak-ng -v zh -s 140"

type Speaker struct {
	name string
	args []string

	mu     sync.Mutex
	active *exec.Cmd
}

// New builds a Speaker from a synthesis command line; the text to
// speak is appended as the final argument. An empty command line falls
// back to DefaultCommand.
func New(cmdline string) *Speaker {
	if strings.TrimSpace(cmdline) == "" {
		cmdline = DefaultCommand
	}
	parts := strings.Fields(cmdline)
	return &Speaker{name: parts[0], args: parts[1:]}
}

// Speak cancels the current utterance and starts the new one,
// fire-and-forget. A missing synthesis engine is silently ignored.
func (s *Speaker) Speak(text string) {
	if text == "" {
		return
	}
	if _, err := exec.LookPath(s.name); err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()

	cmd := exec.Command(s.name, append(append([]string{}, s.args...), text)...)
	if err := cmd.Start(); err != nil {
		return
	}
	s.active = cmd
	go cmd.Wait()
}

// Stop silences any current utterance.
func (s *Speaker) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Speaker) stopLocked() {
	if s.active != nil && s.active.Process != nil {
		_ = s.active.Process.Kill()
	}
	s.active = nil
}
