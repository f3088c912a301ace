package command

// Context is the result of interpreting a message as a command invocation.
type Context struct {
	// Command is the matched command, or nil when nothing matched.
	Command *Command

	// Name is the token that was looked up. It is empty when the message did not carry the prefix.
	Name string

	// Args are the tokens following the command name. Never nil.
	Args []string

	// CanExecute is true only when a command matched and the permission check passed.
	CanExecute bool
}

// EmptyContext returns a Context that matched nothing.
func EmptyContext() *Context {
	return &Context{
		Args: []string{},
	}
}
