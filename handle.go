package s3comms

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
)

// headBufferSize bounds the synthetic header buffer getsize scans for the
// Content-Length marker, mirroring the 16 KiB stack buffer the original
// curl write-callback streamed response headers into.
const headBufferSize = 16 * 1024

// Config carries the pieces of Open's behavior a caller may want to
// override; a nil Config falls back to DefaultConfig, following the
// teacher's own nil-Config convention.
type Config struct {
	Client *http.Client
	Clock  Clock
}

// DefaultConfig is used whenever Open is passed a nil *Config.
var DefaultConfig = &Config{
	Client: ClientWithTimeout(defaultClientTimeout),
	Clock:  RealClock{},
}

func (c *Config) orDefault() *Config {
	if c == nil {
		return DefaultConfig
	}
	cfg := *c
	if cfg.Client == nil {
		cfg.Client = DefaultConfig.Client
	}
	if cfg.Clock == nil {
		cfg.Clock = DefaultConfig.Clock
	}
	return &cfg
}

// Handle is a single-threaded, exclusive resource representing an open
// remote object: its parsed URL, a live HTTP client, the discovered file
// size, and (for authenticated mode) the AWS region, access key id, and
// cached 32-byte SigV4 signing key. Concurrent use of one Handle across
// goroutines is undefined, per the package's concurrency model.
type Handle struct {
	purl   *ParsedURL
	client *http.Client
	clock  Clock

	filesize uint64

	region      string
	accessKeyID string
	signingKey  []byte

	verb   string
	closed bool
}

// Open parses rawURL, optionally authenticates with the given (region,
// accessKeyID, signingKey) triple, and issues an HTTP HEAD to discover the
// object's size. All three of region, accessKeyID, signingKey must be
// either present or absent (empty string / nil); a partial triple is a
// CredentialsInconsistent error.
//
// A nil config uses DefaultConfig.
func Open(rawURL, region, accessKeyID string, signingKey []byte, config *Config) (*Handle, error) {
	purl, err := ParseURL(rawURL)
	if err != nil {
		return nil, err
	}

	authenticated := region != "" || accessKeyID != "" || len(signingKey) > 0
	if authenticated {
		if region == "" || accessKeyID == "" || len(signingKey) == 0 {
			return nil, newError(CredentialsInconsistent,
				"region, accessKeyID, and signingKey must all be present or all be absent")
		}
	}

	cfg := config.orDefault()

	h := &Handle{
		purl:        purl,
		client:      cfg.Client,
		clock:       cfg.Clock,
		region:      region,
		accessKeyID: accessKeyID,
		signingKey:  signingKey,
		verb:        "HEAD",
	}

	if err := h.getsize(); err != nil {
		return nil, err
	}
	h.verb = "GET"

	return h, nil
}

// Size returns the object's byte length, as discovered by the HEAD issued
// during Open.
func (h *Handle) Size() uint64 {
	return h.filesize
}

func (h *Handle) authenticated() bool {
	return len(h.signingKey) > 0
}

// resourcePath is the HTTP request target's path component, always
// beginning with '/'.
func (h *Handle) resourcePath() string {
	if h.purl.HasPath {
		return "/" + h.purl.Path
	}
	return "/"
}

func (h *Handle) hostHeader() string {
	if h.purl.HasPort {
		return h.purl.Host + ":" + h.purl.Port
	}
	return h.purl.Host
}

func (h *Handle) requestURL() string {
	u := h.purl.Scheme + "://" + h.hostHeader() + h.resourcePath()
	if h.purl.HasQuery {
		u += "?" + h.purl.Query
	}
	return u
}

// getsize performs the HEAD request that discovers the object's size and
// stores it on the handle.
func (h *Handle) getsize() error {
	resp, err := h.doRequest("HEAD", "")
	if err != nil {
		return err
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newError(HttpRequestFailed, fmt.Sprintf("HEAD returned status %d", resp.StatusCode))
	}

	headerBuf := serializeHeaders(resp.Header)
	size, err := parseContentLength(headerBuf)
	if err != nil {
		return err
	}
	h.filesize = size
	logger.debugPrintf("object size: %d bytes (%s)", size, h.requestURL())
	return nil
}

// Read fetches the byte window starting at offset into dest, or the whole
// object when both offset and length are zero, or from offset to
// end-of-object when length is zero and offset is nonzero. For a nonzero
// length the Range header sent is "bytes=offset-(offset+length)"; HTTP
// byte ranges are inclusive, so a server that honors it returns
// length+1 bytes, and all returned bytes are copied to dest. A window
// whose offset+length exceeds the object size fails with ReadPastEnd
// without issuing any HTTP request. A nil dest performs the request but
// discards the body.
func (h *Handle) Read(offset, length uint64, dest io.Writer) error {
	if h.closed {
		return newError(ArgumentInvalid, "handle is closed")
	}
	if offset > h.filesize || offset+length > h.filesize {
		return newError(ReadPastEnd, "read window exceeds object size")
	}

	var rangeValue string
	switch {
	case length == 0 && offset == 0:
		// fetch the entire object; no Range header.
	case length == 0 && offset > 0:
		rangeValue = fmt.Sprintf("%d-", offset)
	default:
		// Deliberate off-by-one: upper bound is offset+length, not
		// offset+length-1. See DESIGN.md.
		rangeValue = fmt.Sprintf("%d-%d", offset, offset+length)
	}

	if rangeValue != "" {
		logger.debugPrintf("requesting range bytes=%s", rangeValue)
	}

	resp, err := h.doRequest(h.verb, rangeValue)
	if err != nil {
		logger.debugPrintln(err)
		return err
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return newError(HttpRequestFailed, fmt.Sprintf("%s returned status %d", h.verb, resp.StatusCode))
	}

	if dest == nil {
		return nil
	}
	if _, err := io.Copy(dest, resp.Body); err != nil {
		return wrapError(HttpRequestFailed, "error reading response body", err)
	}
	return nil
}

// doRequest builds, signs (if authenticated), issues, and returns the
// response for a single HTTP round trip. The caller is responsible for
// closing resp.Body.
func (h *Handle) doRequest(verb, rangeValue string) (*http.Response, error) {
	req, err := http.NewRequest(verb, h.requestURL(), nil)
	if err != nil {
		return nil, wrapError(HttpRequestFailed, "could not construct request", err)
	}

	if h.authenticated() {
		hdrs, err := h.signedHeaders(verb, rangeValue)
		if err != nil {
			return nil, err
		}
		for _, n := range hdrs.Nodes() {
			req.Header.Set(n.Name, n.Value)
		}
	} else if rangeValue != "" {
		req.Header.Set("Range", "bytes="+rangeValue)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, wrapError(HttpRequestFailed, "request failed", err)
	}
	return resp, nil
}

// signedHeaders builds the header list for an authenticated request: Host,
// optionally Range, x-amz-content-sha256, x-amz-date, and Authorization.
func (h *Handle) signedHeaders(verb, rangeValue string) (*List, error) {
	now := h.clock.Now()
	iso8601now := now.Format(iso8601Format)
	yyyymmdd := now.Format(dateFormat)

	hdrs := NewList()
	hostVal := h.hostHeader()
	shaVal := EmptyPayloadHash
	dateVal := iso8601now

	if err := hdrs.Set("Host", &hostVal); err != nil {
		return nil, err
	}
	if rangeValue != "" {
		rv := "bytes=" + rangeValue
		if err := hdrs.Set("Range", &rv); err != nil {
			return nil, err
		}
	}
	if err := hdrs.Set("x-amz-content-sha256", &shaVal); err != nil {
		return nil, err
	}
	if err := hdrs.Set("x-amz-date", &dateVal); err != nil {
		return nil, err
	}

	canonicalRequest, signedHeaders := CanonicalRequest(verb, h.resourcePath(), "", hdrs)
	stringToSign := StringToSign(canonicalRequest, now, h.region)
	signature := Signature(h.signingKey, stringToSign)
	authHeader := AuthorizationHeader(h.accessKeyID, yyyymmdd, h.region, signedHeaders, signature)

	if err := hdrs.Set("Authorization", &authHeader); err != nil {
		return nil, err
	}
	return hdrs, nil
}

// Close releases the handle's resources. It is idempotent: closing an
// already-closed (or nil) handle is a no-op.
func (h *Handle) Close() error {
	if h == nil || h.closed {
		return nil
	}
	h.closed = true
	h.client = nil
	h.signingKey = nil
	return nil
}

func drainAndClose(body io.ReadCloser) {
	if body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 4096))
	_ = body.Close()
}

// serializeHeaders renders resp headers in "\r\nName: value" form, adding
// no further header lines once the buffer has reached headBufferSize
// (the last line added may end past that size), so parseContentLength
// can scan for the literal
// "\r\nContent-Length: " marker exactly as the original response-header
// write callback did.
func serializeHeaders(hdr http.Header) []byte {
	var buf bytes.Buffer
	buf.WriteString("\r\n")
	for name, values := range hdr {
		for _, v := range values {
			if buf.Len() >= headBufferSize {
				return buf.Bytes()
			}
			buf.WriteString(name)
			buf.WriteString(": ")
			buf.WriteString(v)
			buf.WriteString("\r\n")
		}
	}
	return buf.Bytes()
}

const contentLengthMarker = "\r\nContent-Length: "

// parseContentLength scans headerBuf for the literal substring
// "\r\nContent-Length: ", parses the digits up to the next "\r\n" as an
// unsigned integer, and returns it. It fails if the marker is absent, the
// line is unterminated, or the value is non-numeric, zero, or overflows.
func parseContentLength(headerBuf []byte) (uint64, error) {
	idx := bytes.Index(headerBuf, []byte(contentLengthMarker))
	if idx < 0 {
		return 0, newError(ResponseMalformed, "Content-Length header marker not found")
	}
	start := idx + len(contentLengthMarker)
	rest := headerBuf[start:]
	end := bytes.Index(rest, []byte("\r\n"))
	if end < 0 {
		return 0, newError(ResponseMalformed, "Content-Length line missing trailing CRLF")
	}
	valStr := string(rest[:end])
	val, err := strconv.ParseUint(valStr, 10, 64)
	if err != nil {
		return 0, wrapError(ResponseMalformed, "Content-Length is not numeric", err)
	}
	if val == 0 || val == math.MaxUint64 {
		return 0, newError(ResponseMalformed, "Content-Length is zero or the maximum representable value")
	}
	return val, nil
}
