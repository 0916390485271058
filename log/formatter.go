// SPDX-License-Identifier: MIT
// Copyright (c) 2017, Denis Parchenko.
// Copyright (c) 2022, Unikraft GmbH. All rights reserved.

package log

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

const defaultTimestampFormat = time.RFC3339

var baseTimestamp = time.Now()

type renderFunc func(...string) string

func badge(bg string) renderFunc {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(bg)).
		Foreground(lipgloss.AdaptiveColor{Light: "15", Dark: "0"}).
		Render
}

func plain(strs ...string) string {
	var b bytes.Buffer
	for _, s := range strs {
		b.WriteString(s)
	}
	return b.String()
}

// levelBadges maps each level to its single character marker and color.
var levelBadges = map[logrus.Level]struct {
	text  string
	color renderFunc
}{
	logrus.PanicLevel: {"X", badge("9")},
	logrus.FatalLevel: {"!", badge("9")},
	logrus.ErrorLevel: {"E", badge("9")},
	logrus.WarnLevel:  {"W", badge("11")},
	logrus.InfoLevel:  {"i", badge("8")},
	logrus.DebugLevel: {"D", badge("12")},
	logrus.TraceLevel: {"T", lipgloss.NewStyle().Background(lipgloss.Color("0")).Foreground(lipgloss.Color("15")).Render},
}

// TextFormatter renders log entries as a colored single-character level badge
// followed by the message and its sorted fields when attached to a terminal,
// and as logfmt-style key/value pairs otherwise.
type TextFormatter struct {
	// Set to true to bypass checking for a TTY before outputting colors.
	ForceColors bool

	// Force disabling colors.
	DisableColors bool

	// Force formatted layout, even for non-TTY output.
	ForceFormatting bool

	// Disable timestamp logging.
	DisableTimestamp bool

	// Log the full timestamp instead of the seconds elapsed since start.
	FullTimestamp bool

	// Timestamp format to use for display when a full timestamp is printed.
	TimestampFormat string

	isTerminal bool
	once       sync.Once
}

func (f *TextFormatter) checkIfTerminal(w io.Writer) bool {
	switch v := w.(type) {
	case *os.File:
		return term.IsTerminal(int(v.Fd()))
	default:
		return false
	}
}

// Format implements logrus.Formatter
func (f *TextFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	f.once.Do(func() {
		if entry.Logger != nil {
			f.isTerminal = f.checkIfTerminal(entry.Logger.Out)
		}
	})

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b := entry.Buffer
	if b == nil {
		b = &bytes.Buffer{}
	}

	timestampFormat := f.TimestampFormat
	if timestampFormat == "" {
		timestampFormat = defaultTimestampFormat
	}

	if f.ForceFormatting || f.isTerminal {
		colored := (f.ForceColors || f.isTerminal) && !f.DisableColors
		f.printFormatted(b, entry, keys, timestampFormat, colored)
	} else {
		if !f.DisableTimestamp {
			fmt.Fprintf(b, "time=%q ", entry.Time.Format(timestampFormat))
		}
		fmt.Fprintf(b, "level=%s", entry.Level.String())
		if entry.Message != "" {
			fmt.Fprintf(b, " msg=%q", entry.Message)
		}
		for _, k := range keys {
			fmt.Fprintf(b, " %s=%q", k, fmt.Sprint(entry.Data[k]))
		}
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

func (f *TextFormatter) printFormatted(b *bytes.Buffer, entry *logrus.Entry, keys []string, timestampFormat string, colored bool) {
	marker, ok := levelBadges[entry.Level]
	if !ok {
		marker = levelBadges[logrus.DebugLevel]
	}

	color := marker.color
	if !colored {
		color = plain
	}

	fmt.Fprint(b, color(" "+marker.text+" "))

	if !f.DisableTimestamp {
		if f.FullTimestamp {
			fmt.Fprintf(b, " %s", entry.Time.Format(timestampFormat))
		} else {
			fmt.Fprintf(b, " [%04d]", int(time.Since(baseTimestamp)/time.Second))
		}
	}

	fmt.Fprintf(b, " %s", entry.Message)

	for _, k := range keys {
		fmt.Fprintf(b, " %s=%+v", color(k), entry.Data[k])
	}
}
