package analysis

import (
	"strconv"

	"firestige.xyz/wirefp/internal/core"
)

// FingerprintType identifies the protocol a fingerprint was computed over.
type FingerprintType uint8

const (
	FingerprintTypeUnknown FingerprintType = iota
	FingerprintTypeTLS
	FingerprintTypeTLSServer
	FingerprintTypeHTTP
	FingerprintTypeHTTPServer
	FingerprintTypeDTLS
	FingerprintTypeDTLSServer
	FingerprintTypeDHCP
)

func (t FingerprintType) String() string {
	switch t {
	case FingerprintTypeTLS:
		return core.LabelTLS
	case FingerprintTypeTLSServer:
		return core.LabelTLSServer
	case FingerprintTypeHTTP:
		return core.LabelHTTP
	case FingerprintTypeHTTPServer:
		return core.LabelHTTPServer
	case FingerprintTypeDTLS:
		return core.LabelDTLS
	case FingerprintTypeDTLSServer:
		return core.LabelDTLSServer
	case FingerprintTypeDHCP:
		return core.LabelDHCP
	}
	return core.LabelUnknown
}

// FingerprintStatus says what the engine knows about a fingerprint.
type FingerprintStatus uint8

const (
	FingerprintStatusNoInfoAvailable FingerprintStatus = iota
	FingerprintStatusLabeled
	FingerprintStatusRandomized
	FingerprintStatusUnlabeled
)

func (s FingerprintStatus) String() string {
	switch s {
	case FingerprintStatusNoInfoAvailable:
		return "no info available"
	case FingerprintStatusLabeled:
		return "labeled"
	case FingerprintStatusRandomized:
		return "randomized"
	case FingerprintStatusUnlabeled:
		return "unlabeled"
	}
	return "unknown status code (" + strconv.Itoa(int(s)) + ")"
}
