package smtp

const (
	StatusServiceReady   = "220 %s ESMTP smsgate" // server hostname
	StatusBye            = "221 Bye"
	StatusOK             = "250 Ok"
	StatusHello          = "250 Hello %s" // client hostname
	StatusUserNotLocal   = "251 User not local"
	StatusStartMailInput = "354 End data with <CR><LF>.<CR><LF>"
	StatusNotImplemented = "502 Command not implemented"
)
