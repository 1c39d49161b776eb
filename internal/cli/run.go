package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run -- <command> [args...]",
	Short: "Run a command and forward its output and failure",
	Long: "Runs <command> with the console override and the uncaught exception\n" +
		"hook enabled. Every stdout line goes through console log, every stderr\n" +
		"line through console error, so both are forwarded as console events\n" +
		"and still printed. A failing exit is reported as an uncaught exception.",
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.OverrideConsole = true
	cfg.ReportUncaughtExceptions = true

	env := newEnvironment(cmd, cfg)
	s, err := openSession(cfg, env)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close(context.Background()) }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	child := exec.CommandContext(ctx, args[0], args[1:]...)
	child.Stdin = os.Stdin
	stdout, err := child.StdoutPipe()
	if err != nil {
		return err
	}
	stderr, err := child.StderrPipe()
	if err != nil {
		return err
	}
	if err := child.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", args[0], err)
	}

	forward := func(name string, r io.Reader, fn func(args ...any)) {
		if err := forwardLines(r, fn); err != nil {
			s.logger.Warn("output forwarding stopped", zap.String("stream", name), zap.Error(err))
		}
	}
	var wg sync.WaitGroup
	wg.Go(func() { forward("stdout", stdout, env.Console.Log) })
	wg.Go(func() { forward("stderr", stderr, env.Console.Error) })
	wg.Wait()

	if err := child.Wait(); err != nil {
		err = fmt.Errorf("%s: %w", args[0], err)
		env.Errors.ReportFatalError(err)
		return err
	}
	return nil
}

// maxLineSize bounds a forwarded line, newline included.
const maxLineSize = 1 << 20

// forwardLines calls fn once per line of r. On a line longer than
// maxLineSize it stops forwarding, drains r so the writer never blocks,
// and returns bufio.ErrTooLong.
func forwardLines(r io.Reader, fn func(args ...any)) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		fn(sc.Text())
	}
	if err := sc.Err(); err != nil {
		_, _ = io.Copy(io.Discard, r)
		return err
	}
	return nil
}
