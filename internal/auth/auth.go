package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
)

// Authenticator checks a single static credential pair. An empty configured
// value is unset and matches anything supplied.
type Authenticator struct {
	username string
	password string
}

type Configuration struct {
	Username string
	Password string
}

func New(config Configuration) *Authenticator {
	a := &Authenticator{}
	if config.Username != "" {
		a.username = Hash(config.Username)
	}
	if config.Password != "" {
		a.password = Hash(config.Password)
	}
	return a
}

func (a *Authenticator) Check(username, password string) bool {
	userOK := matches(a.username, username)
	passOK := matches(a.password, password)
	return userOK && passOK
}

func matches(want, supplied string) bool {
	if want == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(Hash(supplied))) == 1
}

func Hash(value string) string {
	h := sha256.New()
	h.Write([]byte(value))
	bs := h.Sum(nil)
	return fmt.Sprintf("%x", bs)
}
