package s3comms

import "strings"

// ParsedURL is the result of splitting a URL string into its components.
//
// Scheme and Host are always populated on a successful parse. Port, Path,
// and Query are each either populated or explicitly absent — an absent
// field is never stored as an empty string; the Has* companions record
// presence. Path never begins with the leading '/' the grammar requires
// before it; ParseURL consumes that separator.
type ParsedURL struct {
	Scheme string
	Host   string

	Port    string
	HasPort bool

	Path    string
	HasPath bool

	Query    string
	HasQuery bool
}

const schemeSepLen = len("://")

// ParseURL splits input into scheme/host/port/path/query components per
// the grammar:
//
//	SCHEME "://" HOST [":" PORT] ["/" [PATH]] ["?" QUERY]
//
// with SCHEME = [A-Za-z+.\-]+ and PORT = [0-9]+. Scheme is lowercased on
// store. Host is either bracketed ("[...]", preserved verbatim including
// brackets, scanned only until the first ']') or unbracketed (terminated
// by the first of ':', '/', '?', or end-of-string).
func ParseURL(input string) (*ParsedURL, error) {
	if input == "" {
		return nil, newError(UrlMalformed, "empty input")
	}
	n := len(input)

	sepIdx := strings.Index(input, "://")
	if sepIdx < 0 {
		return nil, newError(UrlMalformed, "missing \"://\"")
	}
	if sepIdx == 0 {
		return nil, newError(UrlMalformed, "empty scheme")
	}

	scheme := input[:sepIdx]
	for _, c := range scheme {
		if !isSchemeChar(c) {
			return nil, newError(UrlMalformed, "scheme contains disallowed character")
		}
	}

	rest := input[sepIdx+schemeSepLen:]
	restStart := sepIdx + schemeSepLen
	if restStart > n || len(rest) > n {
		return nil, newError(UrlMalformed, "substring length exceeds input length")
	}

	purl := &ParsedURL{Scheme: strings.ToLower(scheme)}

	// HOST
	var host string
	var i int
	if len(rest) > 0 && rest[0] == '[' {
		closeIdx := strings.IndexByte(rest, ']')
		if closeIdx < 0 {
			return nil, newError(UrlMalformed, "IPv6 host missing closing ']'")
		}
		host = rest[:closeIdx+1]
		i = closeIdx + 1
	} else {
		i = 0
		for i < len(rest) {
			c := rest[i]
			if c == ':' || c == '/' || c == '?' {
				break
			}
			i++
		}
		host = rest[:i]
	}
	if host == "" {
		return nil, newError(UrlMalformed, "empty host")
	}
	if len(host) > n {
		return nil, newError(UrlMalformed, "substring length exceeds input length")
	}
	purl.Host = host
	rest = rest[i:]

	// PORT
	if len(rest) > 0 && rest[0] == ':' {
		rest = rest[1:]
		j := 0
		for j < len(rest) {
			c := rest[j]
			if c == '/' || c == '?' {
				break
			}
			j++
		}
		port := rest[:j]
		if port == "" {
			return nil, newError(UrlMalformed, "empty port after ':'")
		}
		for _, c := range port {
			if c < '0' || c > '9' {
				return nil, newError(UrlMalformed, "port contains non-digit characters")
			}
		}
		purl.Port = port
		purl.HasPort = true
		rest = rest[j:]
	}

	// PATH
	if len(rest) > 0 && rest[0] == '/' {
		rest = rest[1:]
		k := 0
		for k < len(rest) {
			if rest[k] == '?' {
				break
			}
			k++
		}
		path := rest[:k]
		if path != "" {
			purl.Path = path
			purl.HasPath = true
		}
		rest = rest[k:]
	}

	// QUERY
	if len(rest) > 0 && rest[0] == '?' {
		query := rest[1:]
		if query == "" {
			return nil, newError(UrlMalformed, "empty query after '?'")
		}
		purl.Query = query
		purl.HasQuery = true
		rest = ""
	}

	if rest != "" {
		return nil, newError(UrlMalformed, "unexpected trailing input")
	}

	return purl, nil
}

func isSchemeChar(c rune) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || c == '+' || c == '.' || c == '-'
}
