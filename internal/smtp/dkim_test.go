package smtp

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/emersion/go-msgauth/dkim"
)

const testMail = "From: sender@example.com\r\n" +
	"To: localhost@gw.example.com\r\n" +
	"Subject: hi\r\n" +
	"\r\n" +
	"body\r\n"

func signTestMail(t *testing.T) ([]byte, func(string) ([]string, error)) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("Expected key generation to succeed, got %v", err)
	}
	pub, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("Expected public key to marshal, got %v", err)
	}

	var signed bytes.Buffer
	err = dkim.Sign(&signed, strings.NewReader(testMail), &dkim.SignOptions{
		Domain:     "example.com",
		Selector:   "mail",
		Signer:     key,
		HeaderKeys: []string{"from", "to", "subject"},
	})
	if err != nil {
		t.Fatalf("Expected signing to succeed, got %v", err)
	}

	record := "v=DKIM1; k=rsa; p=" + base64.StdEncoding.EncodeToString(pub)
	lookup := func(domain string) ([]string, error) {
		if domain != "mail._domainkey.example.com" {
			return nil, errors.New("no such record")
		}
		return []string{record}, nil
	}
	return signed.Bytes(), lookup
}

func TestVerifyDKIMPass(t *testing.T) {
	raw, lookup := signTestMail(t)

	verifications, err := VerifyDKIM(raw, lookup)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(verifications) != 1 {
		t.Fatalf("Expected 1 verification, got %d", len(verifications))
	}
	if got := DKIMResult(verifications); got != "pass" {
		t.Errorf("Expected pass, got %s", got)
	}
	if verifications[0].Domain != "example.com" {
		t.Errorf("Expected domain example.com, got %s", verifications[0].Domain)
	}
}

func TestVerifyDKIMTampered(t *testing.T) {
	raw, lookup := signTestMail(t)
	tampered := bytes.Replace(raw, []byte("body"), []byte("evil"), 1)

	verifications, err := VerifyDKIM(tampered, lookup)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got := DKIMResult(verifications); got != "fail" {
		t.Errorf("Expected fail, got %s", got)
	}
}

func TestVerifyDKIMUnsigned(t *testing.T) {
	verifications, err := VerifyDKIM([]byte(testMail), func(string) ([]string, error) {
		t.Error("Expected no lookup for unsigned mail")
		return nil, nil
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got := DKIMResult(verifications); got != "none" {
		t.Errorf("Expected none, got %s", got)
	}
}
