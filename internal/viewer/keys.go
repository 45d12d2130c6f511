package viewer

import "strings"

var keyBindings = map[string]Command{
	"n":     Next{},
	"right": Next{},
	"p":     Prev{},
	"left":  Prev{},
	"r":     Refresh{},
}

// KeyCommand returns the command bound to a key name ("n", "Right", ...).
// Matching ignores case.
func KeyCommand(key string) (Command, bool) {
	cmd, ok := keyBindings[strings.ToLower(key)]
	return cmd, ok
}
