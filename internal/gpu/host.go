package gpu

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"time"
)

const commandTimeout = 5 * time.Second

// host is the slice of the operating system the runtime probe reads from.
type host struct {
	stat     func(name string) (os.FileInfo, error)
	lookPath func(file string) (string, error)
	output   func(name string, args ...string) ([]byte, error)
}

func defaultHost() host {
	return host{
		stat:     os.Stat,
		lookPath: exec.LookPath,
		output:   runCommand,
	}
}

func runCommand(name string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	return exec.CommandContext(ctx, name, args...).Output()
}

func (h host) exists(path string) bool {
	_, err := h.stat(path)
	return err == nil
}

// nonEmptyLines splits command output into trimmed, non-empty lines.
func nonEmptyLines(output []byte) []string {
	var lines []string
	for _, line := range strings.Split(string(output), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
