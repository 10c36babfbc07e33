package pop3

import "strings"

type Command struct {
	Name string
	// Arg is true when the verb must be followed by a space and an argument.
	Arg bool
}

var (
	CmdUser      = Command{Name: "USER", Arg: true}
	CmdPass      = Command{Name: "PASS", Arg: true}
	CmdCapa      = Command{Name: "CAPA"}
	CmdAuthPlain = Command{Name: "AUTH PLAIN", Arg: true}
	CmdWho       = Command{Name: "WHO"}
	CmdNoop      = Command{Name: "NOOP"}
	CmdQuit      = Command{Name: "QUIT"}
	CmdStat      = Command{Name: "STAT"}
	CmdList      = Command{Name: "LIST"}
	CmdRetr      = Command{Name: "RETR", Arg: true}
	CmdDele      = Command{Name: "DELE", Arg: true}
	CmdRset      = Command{Name: "RSET"}
)

// Parse splits line into the command it starts with and its argument. The
// verb is compared case-insensitively.
func (c Command) Parse(line string) (string, bool) {
	n := len(c.Name)
	if len(line) < n || !strings.EqualFold(line[:n], c.Name) {
		return "", false
	}

	rest := line[n:]
	if rest == "" {
		return "", !c.Arg
	}
	if rest[0] != ' ' {
		return "", false
	}
	return rest[1:], true
}

func (c Command) Matches(line string) bool {
	_, ok := c.Parse(line)
	return ok
}
