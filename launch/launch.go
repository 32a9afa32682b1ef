package launch

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"github.com/nabinked/kcl-bootstrap/common"
)

// EntryPoint is the daemon's fully qualified main class.
const EntryPoint = "com.amazonaws.services.kinesis.multilang.MultiLangDaemon"

type Mode int

const (
	Print Mode = iota
	Execute
)

// Invocation is the resolved executable path plus its argv vector,
// built once and consumed once. Arguments carry no quoting; quoting is
// applied only when rendering for print mode.
type Invocation struct {
	Path string
	Args []string
}

// Build assembles the daemon argv: classpath, entry point, properties
// file, then the optional logback configuration.
func Build(java string, classpath string, propertiesFile string, logConfiguration string) Invocation {
	args := []string{"-cp", classpath, EntryPoint, "-p", propertiesFile}
	if logConfiguration != "" {
		args = append(args, "-l", logConfiguration)
	}
	return Invocation{Path: java, Args: args}
}

// Render turns the invocation into a single shell-pasteable line: the
// executable and every value argument double-quoted, flag tokens bare.
// Windows shells need the call operator in front of a quoted path.
func (i Invocation) Render(platform common.Platform) string {
	tokens := []string{quote(i.Path)}
	for _, arg := range i.Args {
		if strings.HasPrefix(arg, "-") {
			tokens = append(tokens, arg)
		} else {
			tokens = append(tokens, quote(arg))
		}
	}
	line := strings.Join(tokens, " ")
	if platform == common.Windows {
		return "& " + line
	}
	return line
}

func quote(s string) string {
	return `"` + s + `"`
}

// Run consumes the invocation. Print mode writes the rendered line to
// out and reports status 0. Execute mode starts the argv vector directly
// with no shell in between, hands the child this process's stdio,
// forwards termination signals, blocks until exit and returns the
// child's own exit code.
func Run(inv Invocation, mode Mode, platform common.Platform, out io.Writer) (int, error) {
	if mode == Print {
		fmt.Fprintln(out, inv.Render(platform))
		return 0, nil
	}
	return execute(inv)
}

func execute(inv Invocation) (int, error) {
	cmd := exec.Command(inv.Path, inv.Args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to start %s: %v", inv.Path, err)
	}
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sig)
	go func() {
		for s := range sig {
			cmd.Process.Signal(s)
		}
	}()
	err := cmd.Wait()
	if err == nil {
		return 0, nil
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode(), nil
	}
	return 0, fmt.Errorf("failed to run %s: %v", inv.Path, err)
}
