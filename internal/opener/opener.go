// Package opener hands product image URLs to the platform's default viewer.
package opener

import (
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

var ErrNoImage = errors.New("no image to open")

// Commander builds the process used to open a target.
type Commander func(name string, args ...string) *exec.Cmd

type Opener struct {
	command string
	exec    Commander
}

func New(command string) *Opener {
	if strings.TrimSpace(command) == "" {
		command = platformDefault()
	}
	return &Opener{command: command, exec: exec.Command}
}

// WithCommander replaces the process builder, mainly for tests.
func (o *Opener) WithCommander(c Commander) *Opener {
	o.exec = c
	return o
}

func (o *Opener) Command() string { return o.command }

// Open starts the viewer for target detached from the TUI.
func (o *Opener) Open(target string) error {
	target = strings.TrimSpace(target)
	if target == "" {
		return ErrNoImage
	}
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("refusing to open %q: not an http(s) URL", target)
	}

	name, args := o.argv(target)
	cmd := o.exec(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", name, err)
	}

	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

func (o *Opener) argv(target string) (string, []string) {
	fields := strings.Fields(o.command)
	// "start" is a cmd.exe builtin; the empty argument is the window title.
	if len(fields) == 1 && fields[0] == "start" {
		return "cmd", []string{"/c", "start", "", target}
	}
	return fields[0], append(fields[1:], target)
}

func platformDefault() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "windows":
		return "start"
	default:
		return "xdg-open"
	}
}
