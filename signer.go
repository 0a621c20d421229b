package s3comms

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// EmptyPayloadHash is the SHA-256 hex digest of the empty string. The core
// never sends a request body, so every canonical request's payload hash is
// this constant.
const EmptyPayloadHash = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

const (
	iso8601Format = "20060102T150405Z"
	dateFormat    = "20060102"
	algorithm     = "AWS4-HMAC-SHA256"
)

// PercentEncodeByte returns the percent-encoded representation of a single
// byte. Bytes <= 0x7F become "%XX" with uppercase hex. Bytes > 0x7F are
// treated as a single code point in [0x80, 0xFF] and encoded as their
// UTF-8 byte sequence (always two bytes, since a single input byte can
// only represent code points through U+00FF), each percent-encoded in
// turn. Encoding a multi-byte code point requires feeding this function
// one byte of the code point at a time; it has no notion of multi-byte
// input.
func PercentEncodeByte(c byte) string {
	if c <= 0x7F {
		return "%" + strings.ToUpper(hex.EncodeToString([]byte{c}))
	}

	// Build the "stack" of six-bit groups, least-significant first, the
	// same way the bit-stack algorithm in the original C source does.
	var stack []uint32
	k := uint32(c)
	for {
		acc := k >> 6 << 6
		stack = append(stack, k-acc)
		k = acc >> 6
		if k == 0 {
			break
		}
	}

	// A single input byte needs at most two UTF-8 bytes (code points up to
	// U+00FF), but the leading-byte prefix selection below generalizes to
	// the three- and four-byte forms for parity with the original.
	stackSize := len(stack)
	lead := uint32(0xC0)
	if stackSize > 2 {
		lead += 0x20
	}
	if stackSize > 3 {
		lead += 0x10
	}
	stackSize--
	leadByte := lead + stack[stackSize]

	var b strings.Builder
	b.WriteString("%" + strings.ToUpper(hex.EncodeToString([]byte{byte(leadByte)})))
	for i := 0; i < stackSize; i++ {
		contByte := byte(128 + stack[stackSize-1-i])
		b.WriteString("%" + strings.ToUpper(hex.EncodeToString([]byte{contByte})))
	}
	return b.String()
}

// URIEncode percent-encodes s per AWS's URI-encoding rules: unreserved
// bytes ([A-Za-z0-9], '-', '.', '_', '~') pass through unchanged; '/'
// passes through iff encodeSlash is false; every other byte (including
// space, which becomes "%20" rather than '+') is percent-encoded.
func URIEncode(s string, encodeSlash bool) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case isUnreserved(c):
			b.WriteByte(c)
		case c == '/' && !encodeSlash:
			b.WriteByte(c)
		default:
			b.WriteString(PercentEncodeByte(c))
		}
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	return (c >= 'A' && c <= 'Z') ||
		(c >= 'a' && c <= 'z') ||
		(c >= '0' && c <= '9') ||
		c == '-' || c == '.' || c == '_' || c == '~'
}

// LowercaseN returns the first n bytes of s, ASCII-lowercased.
func LowercaseN(s string, n int) string {
	if n > len(s) {
		n = len(s)
	}
	return strings.ToLower(s[:n])
}

// Trim strips leading and trailing ASCII whitespace from s.
func Trim(s string) string {
	return strings.Trim(s, " \t\r\n\v\f")
}

// BytesToHex renders b as hex, two characters per byte, no separators.
// upper selects uppercase versus lowercase hex digits.
func BytesToHex(b []byte, upper bool) string {
	s := hex.EncodeToString(b)
	if upper {
		return strings.ToUpper(s)
	}
	return s
}

// HMACSHA256 is the RFC 2104 HMAC construction over SHA-256.
func HMACSHA256(key, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}

// CanonicalRequest builds the AWS SigV4 canonical request string for a
// request with the given verb, resource path, and (always-empty, per this
// core) query string, over headers, which is assumed already sorted by
// lowercased name (List maintains this invariant). It returns the
// canonical request and the semicolon-joined, lowercased SignedHeaders
// string.
func CanonicalRequest(verb, path, query string, hdrs *List) (canonicalRequest, signedHeaders string) {
	var cr strings.Builder
	cr.WriteString(verb)
	cr.WriteByte('\n')
	cr.WriteString(path)
	cr.WriteByte('\n')
	cr.WriteString(query)
	cr.WriteByte('\n')

	var sh strings.Builder
	for _, n := range hdrs.Nodes() {
		cr.WriteString(n.lowerName)
		cr.WriteByte(':')
		cr.WriteString(Trim(n.Value))
		cr.WriteByte('\n')

		sh.WriteString(n.lowerName)
		sh.WriteByte(';')
	}
	cr.WriteByte('\n')

	signedHeaders = strings.TrimSuffix(sh.String(), ";")
	cr.WriteString(signedHeaders)
	cr.WriteByte('\n')
	cr.WriteString(EmptyPayloadHash)

	return cr.String(), signedHeaders
}

// StringToSign assembles the four-line AWS SigV4 string-to-sign from a
// canonical request, the signing timestamp, and the target region.
func StringToSign(canonicalRequest string, now time.Time, region string) string {
	sum := sha256.Sum256([]byte(canonicalRequest))
	scope := now.Format(dateFormat) + "/" + region + "/s3/aws4_request"
	return algorithm + "\n" +
		now.Format(iso8601Format) + "\n" +
		scope + "\n" +
		BytesToHex(sum[:], false)
}

// SigningKey derives the 32-byte AWS SigV4 signing key from a secret
// access key, region, and an 8-character YYYYMMDD date.
//
//	kSecret  = "AWS4" || secretAccessKey
//	kDate    = HMAC(kSecret,  yyyymmdd)
//	kRegion  = HMAC(kDate,    region)
//	kService = HMAC(kRegion,  "s3")
//	kSigning = HMAC(kService, "aws4_request")
//
// The result is valid, per AWS, for up to 7 days, and is cached by Handle
// for reuse across requests.
func SigningKey(secret, region, yyyymmdd string) []byte {
	kSecret := HMACSHA256([]byte("AWS4"+secret), []byte(yyyymmdd))
	kRegion := HMACSHA256(kSecret, []byte(region))
	kService := HMACSHA256(kRegion, []byte("s3"))
	kSigning := HMACSHA256(kService, []byte("aws4_request"))
	return kSigning
}

// Signature computes the request signature: HMAC-SHA256 of stringToSign
// under signingKey, hex-encoded lowercase.
func Signature(signingKey []byte, stringToSign string) string {
	return BytesToHex(HMACSHA256(signingKey, []byte(stringToSign)), false)
}

// AuthorizationHeader assembles the Authorization header value.
func AuthorizationHeader(accessKeyID, yyyymmdd, region, signedHeaders, signature string) string {
	return algorithm + " Credential=" + accessKeyID + "/" + yyyymmdd + "/" + region + "/s3/aws4_request" +
		",SignedHeaders=" + signedHeaders +
		",Signature=" + signature
}
