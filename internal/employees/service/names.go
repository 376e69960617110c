package service

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

var nameLine = regexp.MustCompile(`^(\d+)\.\s*(.+)$`)

// NameEntry is one parsed line of the names file.
type NameEntry struct {
	Number   int
	FullName string
}

// LineError reports a line that could not be parsed.
type LineError struct {
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// ParseResult holds the valid entries and the rejected lines of a names file.
type ParseResult struct {
	Entries   []NameEntry
	Malformed []LineError
}

// ParseNames reads lines of the form "N.Full Name". Blank lines and lines
// starting with // are skipped. A repeated number keeps the last name.
func ParseNames(r io.Reader) (ParseResult, error) {
	var res ParseResult
	index := make(map[int]int)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}

		m := nameLine.FindStringSubmatch(line)
		if m == nil {
			res.Malformed = append(res.Malformed, LineError{Line: lineNo, Text: line, Reason: "expected N.Full Name"})
			continue
		}
		number, err := strconv.Atoi(m[1])
		if err != nil || number < 1 {
			res.Malformed = append(res.Malformed, LineError{Line: lineNo, Text: line, Reason: "employee number out of range"})
			continue
		}
		name := strings.Join(strings.Fields(m[2]), " ")

		if i, ok := index[number]; ok {
			res.Entries[i].FullName = name
			continue
		}
		index[number] = len(res.Entries)
		res.Entries = append(res.Entries, NameEntry{Number: number, FullName: name})
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("read names: %w", err)
	}
	return res, nil
}
