package diag

import (
	"fmt"
	"io"
	"log"
	"os"
)

// DefaultMaxDiagnostics bounds the retained records of a new Sink.
const DefaultMaxDiagnostics = 1000

// Config controls retention and logging of a Sink.
type Config struct {
	// MaxDiagnostics is the number of detailed records retained.
	// Zero selects DefaultMaxDiagnostics; a negative value means unlimited.
	MaxDiagnostics int

	// LogToFile, if non-empty, is a path every retained diagnostic is appended to.
	LogToFile string

	// LogToConsole logs every retained diagnostic to Console.
	LogToConsole bool

	// Console is the console destination. If nil, os.Stderr is used.
	Console io.Writer
}

// Configure applies cfg, closing any previously opened log file.
func (s *Sink) Configure(cfg Config) error {
	if err := s.Close(); err != nil {
		return err
	}
	if cfg.MaxDiagnostics == 0 {
		cfg.MaxDiagnostics = DefaultMaxDiagnostics
	}
	s.cfg = cfg

	if cfg.LogToConsole {
		w := cfg.Console
		if w == nil {
			w = os.Stderr
		}
		s.console = log.New(w, "", 0)
		s.color = colorEnabled(w)
	}

	if cfg.LogToFile != "" {
		f, err := os.OpenFile(cfg.LogToFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("diag: open log file: %w", err)
		}
		s.file = f
		s.fileLog = log.New(f, "", log.LstdFlags)
	}
	return nil
}

// Close releases the log file, if any, and disables logging.
func (s *Sink) Close() error {
	s.console = nil
	s.fileLog = nil
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

func (s *Sink) log(d Diagnostic) {
	if s.console != nil {
		if s.color {
			s.console.Printf("%s: %s%s%s %s: %s", d.Pos, severityColor(d.Severity), d.Severity, ansiReset, d.Category, d.Msg)
		} else {
			s.console.Print(d.String())
		}
	}
	if s.fileLog != nil {
		s.fileLog.Print(d.String())
	}
}

const (
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiReset  = "\x1b[0m"
)

func severityColor(sev Severity) string {
	if sev == Warning {
		return ansiYellow
	}
	return ansiRed
}

// colorEnabled reports whether w is a terminal and NO_COLOR is unset.
func colorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isTerminal(int(f.Fd()))
}
