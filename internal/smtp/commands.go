package smtp

type Command struct {
	Name   string
	Prefix string
}

var (
	CmdHelo = Command{
		Name:   "HELO",
		Prefix: "HELO ",
	}

	CmdEhlo = Command{
		Name:   "EHLO",
		Prefix: "EHLO ",
	}

	CmdMailFrom = Command{
		Name:   "MAIL FROM",
		Prefix: "MAIL FROM:",
	}

	CmdRcptTo = Command{
		Name:   "RCPT TO",
		Prefix: "RCPT TO:",
	}

	CmdData = Command{
		Name:   "DATA",
		Prefix: "DATA",
	}

	CmdQuit = Command{
		Name:   "QUIT",
		Prefix: "QUIT",
	}

	CmdNoop = Command{
		Name:   "NOOP",
		Prefix: "NOOP",
	}

	CmdRset = Command{
		Name:   "RSET",
		Prefix: "RSET",
	}
)

// Matches reports whether line starts with the command, ignoring case.
func (c Command) Matches(line string) bool {
	if len(line) < len(c.Prefix) {
		return false
	}
	for i := 0; i < len(c.Prefix); i++ {
		if upper(line[i]) != c.Prefix[i] {
			return false
		}
	}
	return true
}

func (c Command) Argument(line string) string {
	return line[len(c.Prefix):]
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}
