package cmd

// Middleware wraps a command (logging, guild-only checks, permission checks).
// The wrapped value is still a Command.
type Middleware func(Command) Command

// Apply applies middlewares in order; the last in the list is the outermost.
func Apply(c Command, mws ...Middleware) Command {
	for _, mw := range mws {
		c = mw(c)
	}
	return c
}
