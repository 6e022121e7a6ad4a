package main

import "strings"

// valueFlags are the flags that take a value. Every other argument is positional.
var valueFlags = map[string]bool{"--save-dir": true, "--xlsx": true}

// orderArgs moves the known flags ahead of a "--" terminator so positionals that
// start with "-" reach the command as plain arguments.
func orderArgs(args []string) []string {
	flags := make([]string, 0, len(args)+1)
	var positional []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}
		name, _, inline := strings.Cut(arg, "=")
		switch {
		case arg == "--help":
			flags = append(flags, arg)
		case valueFlags[name] && inline:
			flags = append(flags, arg)
		case valueFlags[name] && i+1 < len(args):
			flags = append(flags, arg, args[i+1])
			i++
		case valueFlags[name]:
			// left for the flag parser to report the missing value
			flags = append(flags, arg)
		default:
			positional = append(positional, arg)
		}
	}
	return append(append(flags, "--"), positional...)
}
