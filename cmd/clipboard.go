package cmd

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
)

// copyToClipboard places data on the system clipboard, falling back to an
// OSC 52 escape sequence for headless/SSH sessions without a display.
func copyToClipboard(data string) error {
	if err := clipboard.WriteAll(data); err == nil {
		return nil
	}
	return copyToOSC52(data)
}

// osc52Sequence encodes data as an OSC 52 clipboard escape, wrapped for
// tmux or screen when those multiplexers are detected.
func osc52Sequence(data string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(data))
	seq := fmt.Sprintf("\x1b]52;c;%s\x07", encoded)
	if os.Getenv("TMUX") != "" {
		return "\x1bPtmux;" + seq + "\x1b\\"
	}
	if strings.HasPrefix(os.Getenv("TERM"), "screen") {
		return "\x1bP" + seq + "\x1b\\"
	}
	return seq
}

func copyToOSC52(data string) error {
	if _, err := io.WriteString(os.Stdout, osc52Sequence(data)); err != nil {
		return fmt.Errorf("failed to write OSC 52 sequence: %w", err)
	}
	return nil
}
