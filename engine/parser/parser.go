// Package parser converts playground command strings into Intent structs.
// Intentionally dumb: no grammar, just aliases and filler-word stripping.
package parser

import (
	"strings"

	"github.com/nathoo/cheesegates/types"
)

var verbAliases = map[string]string{
	// Place
	"p":    "place",
	"put":  "place",
	"drop": "place",
	"set":  "place",

	// Remove
	"r":    "remove",
	"take": "remove",
	"pick": "remove",
	"lift": "remove",

	// Test pad
	"t":     "test",
	"step":  "test",
	"enter": "test",
	"press": "test",

	"leave": "leave",
	"off":   "leave",
	"exit":  "leave",

	// Info
	"l":      "look",
	"status": "look",
	"show":   "look",
	"ls":     "levels",
	"lv":     "level",
	"goto":   "level",
	"n":      "next",
	"reset":  "clear",
	"hint":   "solve",
	"h":      "help",
	"?":      "help",
}

// Words that carry no meaning in a command, e.g. "put stone 3 in slot 1".
var fillers = map[string]bool{
	"the": true, "a": true, "an": true,
	"stone": true, "stones": true, "slot": true, "slots": true,
	"in": true, "into": true, "on": true, "onto": true, "to": true,
	"from": true, "out": true, "of": true, "up": true,
	"pad": true,
}

// Parse converts a raw command string into an Intent.
func Parse(input string) types.Intent {
	input = strings.TrimSpace(input)
	if input == "" {
		return types.Intent{}
	}

	words := strings.Fields(strings.ToLower(input))

	// Multi-word phrases before alias lookup.
	words = expandMultiWordVerbs(words)

	if alias, ok := verbAliases[words[0]]; ok {
		words[0] = alias
	}

	return types.Intent{
		Verb: words[0],
		Args: stripFillers(words[1:]),
	}
}

// expandMultiWordVerbs handles "step on", "step off", "pick up" etc.
func expandMultiWordVerbs(words []string) []string {
	if len(words) < 2 {
		return words
	}

	switch words[0] {
	case "step", "get":
		if words[1] == "off" || words[1] == "out" {
			return append([]string{"leave"}, words[2:]...)
		}
		if words[1] == "on" || words[1] == "onto" {
			return append([]string{"test"}, words[2:]...)
		}
	case "pick", "take":
		if words[1] == "up" || words[1] == "out" {
			return append([]string{"remove"}, words[2:]...)
		}
	case "next":
		if words[1] == "level" {
			return []string{"next"}
		}
	}

	return words
}

// stripFillers removes filler words, keeping argument order.
func stripFillers(words []string) []string {
	result := make([]string, 0, len(words))
	for _, w := range words {
		if !fillers[w] {
			result = append(result, w)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
