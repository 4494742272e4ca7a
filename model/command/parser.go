package command

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/viant/parsly"
)

// Parse converts one input line into a Command. It never fails: anything it
// cannot make sense of becomes Invalid with Err set.
func Parse(line string) Command {
	words := split(line)
	switch len(words) {
	case 1:
		switch words[0] {
		case "q":
			return Command{Kind: Quit, Input: line}
		case "help":
			return Command{Kind: Help, Input: line}
		case "l":
			return Command{Kind: Launch, Input: line}
		case "s":
			return Command{Kind: Status, Input: line}
		}
		return invalid(line, ErrUnknownCommand)
	case 2:
		var kind Kind
		switch words[0] {
		case "r":
			kind = Refuel
		case "b":
			kind = Bomb
		default:
			return invalid(line, ErrUnknownCommand)
		}
		id, err := strconv.Atoi(words[1])
		if err != nil {
			return invalid(line, fmt.Errorf("%w: %q", ErrInvalidID, words[1]))
		}
		return Command{Kind: kind, ID: id, Input: line}
	}
	return invalid(line, ErrUnknownCommand)
}

// split returns the blank-separated words of line.
func split(line string) []string {
	cursor := parsly.NewCursor("", []byte(line), 0)
	var words []string
	for {
		matched := cursor.MatchAfterOptional(whitespaceToken, wordToken)
		if matched.Code != wordCode {
			return words
		}
		words = append(words, matched.Text(cursor))
	}
}

// Reader reads commands from a line-oriented stream.
type Reader struct {
	scanner *bufio.Scanner
	err     error
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{scanner: bufio.NewScanner(r)}
}

// Next blocks for the next non-blank line and parses it. End of input, or a
// read error, yields Quit; the read error is available from Err.
func (r *Reader) Next() Command {
	for r.scanner.Scan() {
		line := r.scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		return Parse(line)
	}
	r.err = r.scanner.Err()
	return Command{Kind: Quit}
}

// Err returns the read error that ended the stream, if any.
func (r *Reader) Err() error {
	return r.err
}
