package secret

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Clipboard abstracts the system clipboard. Implementations where reading
// is impossible return ErrReadUnsupported from Read; the guard then skips
// the conditional clear rather than failing.
type Clipboard interface {
	Write(text string) error
	Read() (string, error)
}

// ErrReadUnsupported marks a clipboard that can be written but not read
// back.
var ErrReadUnsupported = errors.New("clipboard read not supported")

// OSC52Clipboard writes to the system clipboard via the OSC 52 terminal
// escape sequence, directly to the controlling terminal so it works
// regardless of what the host UI is doing with stdout.
//
// Uses BEL (\x07) as the OSC terminator rather than ST because BEL is a
// single byte that survives intact through layered terminal environments
// (SSH, tmux, screen). When tmux is detected the sequence is additionally
// wrapped in a DCS passthrough; duplicate clipboard sets are harmless.
type OSC52Clipboard struct {
	// TTYPath is the terminal device to write to; defaults to /dev/tty.
	TTYPath string
}

func (c *OSC52Clipboard) Write(text string) error {
	path := c.TTYPath
	if path == "" {
		path = "/dev/tty"
	}
	tty, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("opening terminal: %w", err)
	}
	defer tty.Close()

	encoded := base64.StdEncoding.EncodeToString([]byte(text))
	osc52 := fmt.Sprintf("\x1b]52;c;%s\x07", encoded)

	inTmux := os.Getenv("TMUX") != "" ||
		strings.HasPrefix(os.Getenv("TERM"), "tmux") ||
		strings.HasPrefix(os.Getenv("TERM"), "screen")
	if inTmux {
		wrapped := fmt.Sprintf("\x1bPtmux;%s\x1b\\", strings.ReplaceAll(osc52, "\x1b", "\x1b\x1b"))
		if _, err := tty.WriteString(wrapped); err != nil {
			return err
		}
	}

	_, err = tty.WriteString(osc52)
	return err
}

// Read is unsupported for OSC 52: querying the clipboard requires a
// terminal round-trip most emulators refuse. The timed clear degrades to a
// no-op on such systems.
func (c *OSC52Clipboard) Read() (string, error) {
	return "", ErrReadUnsupported
}
