package command

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseResult holds the parsed command name and arguments from a text line.
type ParseResult struct {
	// Command is the first word of the input, lowercased.
	Command string
	// Args are the remaining words after the command.
	Args []string
	// RawArgs is the raw text after the command, trimmed.
	RawArgs string
}

// Parse splits a text line into a command and arguments.
//
// Postcondition: Returns a ParseResult. If line is blank, Command is empty.
func Parse(line string) ParseResult {
	line = strings.TrimSpace(line)
	if line == "" {
		return ParseResult{}
	}

	spaceIdx := strings.IndexByte(line, ' ')
	if spaceIdx < 0 {
		return ParseResult{
			Command: strings.ToLower(line),
		}
	}

	rest := strings.TrimSpace(line[spaceIdx+1:])
	var args []string
	if rest != "" {
		args = strings.Fields(rest)
	}

	return ParseResult{
		Command: strings.ToLower(line[:spaceIdx]),
		Args:    args,
		RawArgs: rest,
	}
}

// ParseSlot converts a player-facing magic slot number (1..slots) to a
// zero-based index.
//
// Precondition: slots > 0.
// Postcondition: Returns an index in [0, slots) or an error naming the valid range.
func ParseSlot(arg string, slots int) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > slots {
		return 0, fmt.Errorf("slot must be a number from 1 to %d, got %q", slots, arg)
	}
	return n - 1, nil
}
