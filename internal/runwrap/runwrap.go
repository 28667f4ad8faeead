// Package runwrap runs a subprocess under a PTY while scrubbing stored
// secret payloads from everything it prints.
package runwrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/creack/pty"
	"golang.org/x/term"
)

// Options controls PTY execution behavior.
type Options struct {
	RawMode bool
	// Secrets maps raw payloads to their redacted placeholders. Output
	// is written through a Scrubber built from it.
	Secrets map[string]string
	Output  io.Writer
}

// RunScrubbed starts cmd under a PTY and proxies IO, replacing any secret
// payload in the output stream with its placeholder. It returns the
// subprocess exit code.
func RunScrubbed(ctx context.Context, cmd *exec.Cmd, opts Options) (int, error) {
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return 1, fmt.Errorf("start pty: %w", err)
	}
	dst := opts.Output
	if dst == nil {
		dst = os.Stdout
	}
	out := NewScrubber(dst, opts.Secrets)

	restore, err := maybeMakeRaw(opts.RawMode)
	if err != nil {
		return 1, err
	}
	if restore != nil {
		defer restore()
	}

	_ = pty.InheritSize(os.Stdin, ptmx)
	stopSignals := forwardSignals(cmd.Process, ptmx)
	defer stopSignals()

	// Terminate the child when the context is canceled while it runs.
	watchDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = cmd.Process.Signal(syscall.SIGTERM)
		case <-watchDone:
		}
	}()

	errCh := make(chan error, 1)
	go func() { _, _ = io.Copy(ptmx, os.Stdin) }()
	go copyOutput(out, ptmx, errCh)

	waitErr := cmd.Wait()
	close(watchDone)
	_ = ptmx.Close()
	<-errCh
	_ = out.Close()

	if waitErr == nil {
		return 0, nil
	}
	return exitCode(waitErr), nil
}

// copyOutput drains the pty into dst and always delivers the copy result.
// errCh must be buffered: the receiver may not be waiting yet, and a
// dropped result would leave RunScrubbed blocked on the channel.
func copyOutput(dst io.Writer, src io.Reader, errCh chan<- error) {
	_, err := io.Copy(dst, src)
	errCh <- err
}

func maybeMakeRaw(enable bool) (func(), error) {
	if !enable {
		return nil, nil
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, nil
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("set raw mode: %w", err)
	}
	return func() { _ = term.Restore(fd, state) }, nil
}

func forwardSignals(proc *os.Process, ptmx *os.File) func() {
	if proc == nil {
		return func() {}
	}
	ch := make(chan os.Signal, 8)
	signal.Notify(ch, syscall.SIGWINCH, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for sig := range ch {
			switch sig {
			case syscall.SIGWINCH:
				// Best-effort resize; ignore errors.
				_ = pty.InheritSize(os.Stdin, ptmx)
			default:
				_ = proc.Signal(sig)
			}
		}
	}()

	return func() {
		signal.Stop(ch)
		close(ch)
		<-done
	}
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			if status.Signaled() {
				return 128 + int(status.Signal())
			}
			return status.ExitStatus()
		}
	}
	return 1
}
