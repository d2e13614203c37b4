package domain

import (
	"maps"
	"slices"

	"github.com/kballard/go-shellquote"
	"go.trai.ch/zerr"
)

// Command is a program invocation.
type Command struct {
	Name string
	Args []string
	// Env holds variables set only for this command.
	Env map[string]string
}

// NewCommand returns a command running name with args.
func NewCommand(name string, args ...string) Command {
	return Command{Name: name, Args: args}
}

// ParseCommand splits a shell-style command line into a Command.
func ParseCommand(line string) (Command, error) {
	words, err := shellquote.Split(line)
	if err != nil {
		return Command{}, zerr.With(zerr.Wrap(err, ErrInvalidCommand.Error()), "command", line)
	}
	if len(words) == 0 {
		return Command{}, zerr.With(ErrEmptyCommand, "command", line)
	}
	return NewCommand(words[0], words[1:]...), nil
}

// Argv returns the name followed by the arguments.
func (c Command) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

// IsZero reports whether the command has nothing to run.
func (c Command) IsZero() bool {
	return c.Name == ""
}

// With returns a copy of c with args appended.
func (c Command) With(args ...string) Command {
	out := Command{
		Name: c.Name,
		Args: append(slices.Clone(c.Args), args...),
	}
	if c.Env != nil {
		out.Env = maps.Clone(c.Env)
	}
	return out
}

// String renders the command as a POSIX shell line.
// Arguments that need it are single-quoted.
func (c Command) String() string {
	if c.IsZero() {
		return ""
	}
	return shellquote.Join(c.Argv()...)
}
