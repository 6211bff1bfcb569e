package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/danswartzendruber/liner"
	"golang.org/x/term"

	"gobasic"
)

//
// Two liner instances: one for the command prompt, which keeps a
// scrollback history, and one for INPUT, which does not.  They must be
// closed in reverse creation order, since Close restores the terminal
// to its previous state
//

type repl struct {
	session     *gobasic.Session
	cfg         config
	parserLiner *liner.State
	inputLiner  *liner.State
}

const version = "1.0.0"

func main() {

	configPath := flag.String("config", "", "path to a YAML config file")
	root := flag.String("root", "", "program storage root directory")
	folder := flag.String("folder", "", "initial storage folder")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "basic: %v\n", err)
		os.Exit(1)
	}

	if *root != "" {
		cfg.Root = *root
	}
	if *folder != "" {
		cfg.Folder = *folder
	}

	out := gobasic.WriterOutput(func(text string) {
		fmt.Print(text)
	})

	session := gobasic.NewSession(out, gobasic.NewDirStorage(cfg.Root))

	if err := session.SetFolder(cfg.Folder); err != nil {
		fmt.Fprintf(os.Stderr, "basic: %v\n", err)
		os.Exit(1)
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		runBatch(session)
		return
	}

	fmt.Printf("gobasic version %s\n", version)

	width := cfg.Width
	if width == 0 {
		if cols, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width = cols
		}
	}
	session.SetWidth(width)

	watchSignals(session, cfg.Width == 0)

	r := &repl{session: session, cfg: cfg}

	r.parserLiner = setupLiner(false)
	r.inputLiner = setupLiner(true)
	defer cleanupLiners(r)

	r.loop()
}

//
// watchSignals stops a running program on ^C and tracks the window
// width on resize.  At the prompt liner owns the terminal and eats ^C
// itself, so SIGINT only arrives while a program runs.  The width is
// only followed when the config did not pin it
//

func watchSignals(session *gobasic.Session, trackWidth bool) {

	signal.Ignore(syscall.SIGTSTP)

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGWINCH)

	go func() {
		for sig := range ch {
			switch sig {
			case syscall.SIGINT:
				session.Interrupt()

			case syscall.SIGWINCH:
				if !trackWidth {
					break
				}
				cols, _, err := term.GetSize(int(os.Stdout.Fd()))
				if err == nil {
					session.SetWidth(cols)
				}
			}
		}
	}()
}

func setupLiner(allowCtrlC bool) *liner.State {

	l := liner.NewLiner()
	l.SetMultiLineMode(allowCtrlC)

	return l
}

func cleanupLiners(r *repl) {
	cleanupLiner(&r.inputLiner)
	cleanupLiner(&r.parserLiner)
}

func cleanupLiner(linerState **liner.State) {

	if *linerState != nil {
		(*linerState).Close()
		*linerState = nil
	}
}

func (r *repl) loop() {

	for {
		if r.session.State() == gobasic.StateAwaitingInput {
			if r.feedInput() {
				return
			}
			continue
		}

		text, eof := readLine(r.parserLiner, r.cfg.Prompt, true)
		if eof {
			return
		}

		trimmed := strings.ToLower(strings.TrimSpace(text))

		switch {
		case trimmed == "":

		case trimmed == "bye" || trimmed == "exit" || trimmed == "quit":
			return

		case trimmed == "help" || strings.HasPrefix(trimmed, "help "):
			printHelp(strings.TrimSpace(strings.TrimPrefix(trimmed,
				"help")))

		default:
			// Errors were already reported through the output sink
			r.session.Execute(text)
		}
	}
}

//
// feedInput satisfies a suspended INPUT or GET.  true means the user
// hit end-of-file and wants out
//

func (r *repl) feedInput() bool {

	if r.session.AwaitingKey() {
		ch, ok := r.readKey()
		if !ok {
			return true
		}

		r.session.ResumeKey(ch)

		return false
	}

	text, eof := readLine(r.inputLiner, "", false)
	if eof {
		return true
	}

	r.session.ResumeInput(text)

	return false
}

//
// readKey gets one keystroke for GET.  In unbuffered mode the terminal
// goes raw for a single byte; in line mode a whole line is read and
// the first character taken, with enter alone standing for newline
//

func (r *repl) readKey() (byte, bool) {

	if r.cfg.InputMode == "unbuffered" {
		fd := int(os.Stdin.Fd())

		old, err := term.MakeRaw(fd)
		if err != nil {
			return 0, false
		}

		var buf [1]byte
		_, err = os.Stdin.Read(buf[:])

		term.Restore(fd, old)

		if err != nil {
			return 0, false
		}

		// ^D in raw mode reads as 0x04
		if buf[0] == 0x04 {
			return 0, false
		}

		return buf[0], true
	}

	text, eof := readLine(r.inputLiner, "", false)
	if eof {
		return 0, false
	}

	if text == "" {
		return '\n', true
	}

	return text[0], true
}

//
// readLine wraps liner.Prompt.  ^C comes back as an empty line, ^D as
// end-of-file
//

func readLine(l *liner.State, prompt string, history bool) (string, bool) {

	text, err := l.Prompt(prompt)

	if err != nil {
		if err == io.EOF {
			fmt.Println()
			return "", true
		}

		if err == liner.ErrPromptAborted {
			return "", false
		}

		fmt.Fprintf(os.Stderr, "basic: read error: %v\n", err)

		return "", true
	}

	if history && strings.TrimSpace(text) != "" {
		l.AppendHistory(text)
	}

	return text, false
}

//
// runBatch services piped input: every line feeds the interpreter, and
// lines arriving while it awaits input satisfy the INPUT or GET
//

func runBatch(session *gobasic.Session) {

	sc := bufio.NewScanner(os.Stdin)

	for sc.Scan() {
		text := sc.Text()

		switch {
		case session.State() != gobasic.StateAwaitingInput:
			session.Execute(text)

		case session.AwaitingKey():
			ch := byte('\n')
			if text != "" {
				ch = text[0]
			}
			session.ResumeKey(ch)

		default:
			session.ResumeInput(text)
		}
	}
}
