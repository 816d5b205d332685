package internal

import (
	"gitee.com/golang-module/dongle"
)

// Signer computes the X-VERIFY checksum the gateway uses to authenticate
// requests: sha256 over the exact transmitted payload, the endpoint path and
// the shared salt key, hex encoded, followed by "###" and the salt index.
//
// The checksum is recomputed by the gateway with the same secret; a wrong
// salt key or path is not detectable locally and surfaces as an asynchronous
// rejection.
type Signer struct {
	saltKey   string
	saltIndex string
}

func NewSigner(saltKey, saltIndex string) *Signer {
	return &Signer{
		saltKey:   saltKey,
		saltIndex: saltIndex,
	}
}

// SignPayload signs an encoded payload bound to an endpoint path. The payload
// must be the exact string transmitted; canonicalization happens before this
// step, not after.
func (s *Signer) SignPayload(payload, path string) string {
	hash := dongle.Encrypt.FromString(payload + path + s.saltKey).BySha256().ToHexString()
	return hash + "###" + s.saltIndex
}

// SignPath signs a bare endpoint path; used for the status API where the
// request carries no body.
func (s *Signer) SignPath(path string) string {
	return s.SignPayload("", path)
}
