// logger
/*
Copyright 2021 Bruce Golden and Matt Spangler

Permission is hereby granted, free of charge, to any person obtaining a copy of
this software and associated documentation files (the "Software"), to deal in
the Software without restriction, including without limitation the rights to
use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
of the Software, and to permit persons to whom the Software is furnished to do
so, subject to the following conditions:
The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
)

var OutputMode *string // verbose, table, debug or quiet
var Seed *int64        // Random number generator seed

var LogDir = "."              // Where the log file is written
var RunId = uuid.NewString() // Tags every record of this process
var exit = os.Exit

func mode() string {
	if OutputMode == nil {
		return "verbose"
	}
	return *OutputMode
}

// Verbose is true when progress should be printed
func Verbose() bool {
	return mode() == "verbose" || mode() == "debug"
}

func Debug() bool {
	return mode() == "debug"
}

// Name of the log file for this seed
func FileName() string {
	var seed int64
	if Seed != nil {
		seed = *Seed
	}
	return filepath.Join(LogDir, "log.grouperSim."+strconv.FormatInt(seed, 10))
}

// Set the default slog logger for the console.  Text on a terminal,
// JSON when stderr is redirected.
func Init() {
	slog.SetDefault(NewConsole(os.Stderr, isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())))
}

func NewConsole(w io.Writer, terminal bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	switch mode() {
	case "debug":
		opts.Level = slog.LevelDebug
	case "table", "quiet":
		opts.Level = slog.LevelWarn
	}

	var h slog.Handler
	if terminal {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(h).With("run", RunId)
}

func writeFile(level slog.Level, message string, args ...any) {
	f, err := os.OpenFile(FileName(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		slog.Error("cannot open log file", "file", FileName(), "error", err)
		return
	}
	defer f.Close()

	l := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})).With("run", RunId)
	l.Log(context.Background(), level, message, args...)
}

// Record a message in the log file and on the console
func LogWriter(message string, args ...any) {
	writeFile(slog.LevelInfo, message, args...)
	slog.Info(message, args...)
}

// Record the message and stop the run
func LogWriterFatal(message string, args ...any) {
	writeFile(slog.LevelError, message, args...)
	slog.Error(message, args...)
	exit(1)
}
