package pop3

const (
	StatusGreeting           = "+OK smsgate ready <%s@%s>"
	StatusOK                 = "+OK"
	StatusUserSelected       = "+OK %s selected."
	StatusCapabilities       = "+OK List of capabilities follows"
	StatusLoggedIn           = "+OK Password and username is valid."
	StatusWho                = "+OK smsgate"
	StatusStat               = "+OK %d %d"
	StatusListing            = "+OK %d messages (%d octets)"
	StatusListEntry          = "+OK %d %d"
	StatusRetrieve           = "+OK %d octets"
	StatusDeleted            = "+OK message %d deleted"
	StatusInvalidLogin       = "-ERR Invalid username or password selected."
	StatusNotLoggedIn        = "-ERR Not logged in yet. Please supply username and password."
	StatusInvalidCommand     = "-ERR Invalid command"
	StatusNoSuchMessage      = "-ERR No such message"
	StatusNonExistingMessage = "-ERR Non-existing message"

	endOfMultiline = "."
)

var capabilities = []string{"USER", "PLAIN"}
