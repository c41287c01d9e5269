package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"
)

// Test seams for golang.org/x/term. In tests, replace them with stubs to
// avoid touching a real terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// GetSimpleText prints prompt to w and reads one line from reader. Only the
// line ending (\n or \r\n) is removed; other whitespace is part of the value.
// If EOF follows a partial line, that line is returned; EOF with nothing read
// is returned as io.EOF.
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return trimEOL(line), nil
		}
		return "", err
	}
	return trimEOL(line), nil
}

// GetPassword prints prompt to w and reads a password. When fd is a
// terminal the input is not echoed and a newline is printed afterwards;
// otherwise a plain line is read from reader so piped input works.
//
// The returned byte slice should be wiped by the caller when no longer needed.
func GetPassword(reader *bufio.Reader, fd int, prompt string, w io.Writer) ([]byte, error) {
	if !isTerminal(fd) {
		line, err := GetSimpleText(reader, prompt, w)
		if err != nil {
			return nil, err
		}
		return []byte(line), nil
	}

	if _, err := fmt.Fprint(w, prompt); err != nil {
		return nil, err
	}
	pw, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

func trimEOL(line string) string {
	return strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
}
