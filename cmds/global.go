package cmds

var GlobalExecutor = NewExecutor()

func Define(name string, command *Command) {
	GlobalExecutor.Define(name, command)
}

// Execute runs the process arguments through the global executor, panicking on error.
func Execute(args []string) {
	GlobalExecutor.MustExecute(args)
}
