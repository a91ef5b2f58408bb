// Package repl implements the interactive AuroraLang shell described in
// spec.md §6: a liner-backed prompt with persisted history, dot-commands,
// and a `;;` sentinel that flushes a multi-line buffer for evaluation.
package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/auroralang/aurora/interpreter"
)

const historyFileName = ".aurora_history"

// REPL owns the liner state and the interpreter it feeds source into.
type REPL struct {
	interp *interpreter.Interpreter
	state  *liner.State
	file   string // synthetic file name attributed to REPL input
}

// New wraps interp in an interactive shell. interp is used as-is: builtins
// and a module loader must already be wired into it.
func New(interp *interpreter.Interpreter) *REPL {
	return &REPL{interp: interp, file: "<repl>"}
}

// Run starts the read-eval-print loop and blocks until the user exits or
// stdin closes. It mirrors the buffered-vs-interactive split gisp's
// runREPL uses, since piping a script into `aurora` via stdin should not
// require a real terminal.
func (r *REPL) Run() {
	if !isInteractive() {
		r.runBuffered(os.Stdin)
		return
	}
	r.runInteractive()
}

func (r *REPL) runInteractive() {
	r.state = liner.NewLiner()
	defer r.state.Close()
	r.state.SetCtrlCAborts(true)

	historyPath := historyFilePath()
	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			r.state.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(historyPath); err == nil {
				r.state.WriteHistory(f)
				f.Close()
			}
		}()
	}

	var buffer strings.Builder
	for {
		prompt := "aurora> "
		if buffer.Len() > 0 {
			prompt = "...... "
		}
		line, err := r.state.Prompt(prompt)
		if err != nil {
			switch {
			case errors.Is(err, liner.ErrPromptAborted):
				fmt.Println()
				buffer.Reset()
				continue
			case errors.Is(err, io.EOF):
				fmt.Println()
				return
			default:
				fmt.Fprintf(os.Stderr, "read error: %v\n", err)
				return
			}
		}

		trimmed := strings.TrimSpace(line)
		if buffer.Len() == 0 {
			if handled, exit := r.handleDotCommand(trimmed); handled {
				if exit {
					return
				}
				continue
			}
		}
		if trimmed == ";;" {
			r.flush(&buffer)
			continue
		}

		buffer.WriteString(line)
		buffer.WriteString("\n")
		r.state.AppendHistory(line)
	}
}

// runBuffered handles non-interactive input (piped stdin): each `;;`-
// terminated chunk, or EOF with a non-empty buffer, is evaluated in turn.
func (r *REPL) runBuffered(in io.Reader) {
	reader := bufio.NewReader(in)
	var buffer strings.Builder
	for {
		line, err := reader.ReadString('\n')
		if strings.TrimSpace(line) == ";;" {
			r.flush(&buffer)
		} else {
			buffer.WriteString(line)
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				fmt.Fprintf(os.Stderr, "read error: %v\n", err)
			}
			break
		}
	}
	if buffer.Len() > 0 {
		r.flush(&buffer)
	}
}

func (r *REPL) flush(buffer *strings.Builder) {
	src := buffer.String()
	buffer.Reset()
	if strings.TrimSpace(src) == "" {
		return
	}
	val, err := r.interp.Eval(src, r.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return
	}
	fmt.Println(val.Display())
}

// handleDotCommand processes a line typed at the start of a fresh buffer.
// It returns handled=true if the line was a dot-command (whether or not it
// was recognized), and exit=true if the REPL should terminate.
func (r *REPL) handleDotCommand(line string) (handled, exit bool) {
	if !strings.HasPrefix(line, ".") {
		return false, false
	}
	fields := strings.Fields(line)
	switch fields[0] {
	case ".exit":
		return true, true
	case ".help":
		fmt.Println("commands: .exit  .help  .load <path>")
		fmt.Println("enter ;; on its own line to evaluate a multi-line buffer")
		return true, false
	case ".load":
		if len(fields) < 2 {
			fmt.Fprintln(os.Stderr, ".load requires a file path")
			return true, false
		}
		r.loadFile(fields[1])
		return true, false
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", fields[0])
		return true, false
	}
}

func (r *REPL) loadFile(path string) {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return
	}
	val, err := r.interp.Eval(string(src), path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return
	}
	fmt.Println(val.Display())
}

func historyFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, historyFileName)
}

func isInteractive() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

