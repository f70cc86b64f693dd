package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/domino14/snakedraft/strategy"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string
	Args    []string
}

var commandMetadata = map[string]CommandMetadata{
	"new": {
		Options: []string{"-drafters", "-position", "-names", "-strategies"},
	},
	"autoplay": {
		Options: []string{"-drafters", "-threads", "-log"},
		Args:    strategy.Names(),
	},
	"help": {
		Args: []string{"new", "pick", "autoplay", "strategies"},
	},
}

var commandNames = []string{
	"help", "new", "pick", "next", "run", "suggest", "forecast", "roster",
	"standings", "results", "save", "drafts", "autoplay", "analyze", "exit",
}

// Do implements the readline.AutoComplete interface.
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		// An unterminated quote; fall back to simple space splitting.
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}
		var lastCompleteField string
		if endsWithSpace {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}

		switch {
		case lastCompleteField == "-strategies":
			completions = strategy.Names()
		case cmdName == "pick" && (len(fields) == 1 || (len(fields) == 2 && !endsWithSpace)):
			completions = c.categories()
		}

		if completions == nil {
			if metadata, exists := commandMetadata[cmdName]; exists {
				if strings.HasPrefix(prefix, "-") || len(metadata.Args) == 0 {
					completions = metadata.Options
				} else {
					completions = metadata.Args
				}
			}
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(strings.ToLower(completion), strings.ToLower(prefix)) {
			matches = append(matches, []rune(completion[len(prefix):]))
		}
	}
	return matches, len(prefix)
}

func (c *ShellCompleter) categories() []string {
	if c.sc.rules == nil {
		return nil
	}
	var cats []string
	for _, cat := range c.sc.rules.BaseCategories() {
		cats = append(cats, strings.ToLower(string(cat)))
	}
	return cats
}
