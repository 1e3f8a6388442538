// This helper library has been graciously donated by @shabbyrobe; i'll leave the rest of the
// preamble intact:

// Not-at-all novel terminal style copypasta, originally from
// https://raw.githubusercontent.com/shabbyrobe/golib/master/termfmt/termfmt.go
// Provided under an MIT license.

// Package termfmt styles values for the terminal through fmt verbs:
//
//	fmt.Printf("%d pages\n", termfmt.Bold().Fg(termfmt.Green).V(n))
//
// Styling can be switched off globally, e.g. for --no-color or when stdout is not a terminal.
package termfmt

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

var enabled = true

// Enable turns escape sequences on or off for every Style.
func Enable(on bool) { enabled = on }

type Escape interface {
	Wrap(out string) string
}

func Bold() Style               { return (Style{}).Bold() }
func Fg(c C16Name) Style        { return (Style{}).Fg(c) }
func With(escs ...Escape) Style { return (Style{}).With(escs...) }

type Style struct {
	escapes []Escape
	v       any
}

var _ fmt.Formatter = Style{}

func (c Style) With(escs ...Escape) Style {
	c.escapes = append(c.escapes[:len(c.escapes):len(c.escapes)], escs...)
	return c
}

func (c Style) Bold() Style        { return c.With(BoldEscape{}) }
func (c Style) Fg(n C16Name) Style { return c.With(C16Color{Name: n}) }

func (c Style) V(v any) Style {
	c.v = v
	return c
}

func (c Style) Format(f fmt.State, verb rune) {
	v := printable(fmt.Sprintf(buildValueFormat(f, verb), c.v))
	if enabled {
		for i := len(c.escapes) - 1; i >= 0; i-- {
			v = c.escapes[i].Wrap(v)
		}
	}
	f.Write([]byte(v))
}

func buildValueFormat(f fmt.State, verb rune) string {
	s := "%"
	for _, flag := range " +-0#" {
		if f.Flag(int(flag)) {
			s += string(flag)
		}
	}
	if width, ok := f.Width(); ok {
		s += strconv.Itoa(width)
	}
	if prec, ok := f.Precision(); ok {
		s += "." + strconv.Itoa(prec)
	}
	return s + string(verb)
}

type BoldEscape struct{}

func (b BoldEscape) Wrap(v string) string { return fmt.Sprintf("\x1b[1m%s\x1b[0m", v) }

type C16Name uint8

const (
	DefaultColor C16Name = iota

	Black
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	LightGrey

	DarkGrey
	LightRed
	LightGreen
	LightYellow
	LightBlue
	LightMagenta
	LightCyan
	White
)

type C16Color struct {
	Name C16Name
	Bg   bool
}

func (c C16Color) Wrap(out string) string {
	cv := uint8(39)
	if c.Name != DefaultColor {
		// lower 8 colours are 30-37, upper 8 are 90-97
		cv = uint8(c.Name) - 1
		if c.Name < DarkGrey {
			cv += 30
		} else {
			cv += 90 - 8
		}
	}
	if c.Bg {
		cv += 10
	}
	return fmt.Sprintf("\x1b[%dm%s\x1b[0m", cv, out)
}

func printable(v string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsGraphic(r) || r == '\n' {
			return r
		}
		return -1
	}, v)
}
