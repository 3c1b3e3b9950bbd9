package core

// GetCommandType returns the command's kind name, or "nil"
func GetCommandType(cmd Command) string {
	if cmd == nil {
		return "nil"
	}
	return cmd.Kind().String()
}
