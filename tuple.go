package s3comms

// This file implements the collaborator CLI input grammar consumed by the
// h5tools_utils.c-style command-line tools that sit outside the S3
// Communications core: a generic "(a,b,c)" tuple parser, and the
// three/four-element (region, id, key[, ...]) grammar used to populate a
// ROS3 file-access-property-list equivalent.

import "strings"

// ParseTuple parses "(elem0 SEP elem1 SEP ... elemN)" where sep is a
// single caller-chosen separator byte. A backslash escapes the following
// byte literally (so "\," yields a literal comma inside an element when
// ',' is the separator, and "\\" yields a single backslash). An unescaped
// ')' that is the last byte of input terminates the tuple. Empty elements
// are permitted and produce empty strings. Parentheses nested inside an
// element are ordinary characters, not tracked for balance.
func ParseTuple(input string, sep byte) ([]string, error) {
	if len(input) == 0 || input[0] != '(' {
		return nil, newError(ArgumentInvalid, "tuple must begin with '('")
	}

	var elems []string
	var cur strings.Builder

	i := 1
	for i < len(input) {
		c := input[i]
		switch {
		case c == '\\':
			if i+1 >= len(input) {
				return nil, newError(ArgumentInvalid, "dangling escape at end of input")
			}
			cur.WriteByte(input[i+1])
			i += 2
		case c == ')' && i == len(input)-1:
			elems = append(elems, cur.String())
			return elems, nil
		case c == sep:
			elems = append(elems, cur.String())
			cur.Reset()
			i++
		default:
			cur.WriteByte(c)
			i++
		}
	}
	return nil, newError(ArgumentInvalid, "unterminated tuple, missing ')'")
}

// Schema version for the current ROS3FAPL shape, analogous to
// H5FD__CURR_ROS3_FAPL_T_VERSION.
const CurrentROS3FAPLVersion = 1

// Per-field maxima, analogous to H5FD__ROS3_MAX_REGION_LEN,
// H5FD__ROS3_MAX_SECRET_ID_LEN, and H5FD__ROS3_MAX_SECRET_KEY_LEN.
const (
	ros3MaxRegionLen    = 32
	ros3MaxSecretIDLen  = 128
	ros3MaxSecretKeyLen = 128
)

// ROS3FAPL is the Go analogue of H5FD_ros3_fapl_t: the configuration a
// CLI collaborator assembles before calling Open.
type ROS3FAPL struct {
	Version      int
	Authenticate bool
	Region       string
	SecretID     string
	SecretKey    string
}

// PopulateROS3FAPL fills a ROS3FAPL from a 3- or 4-element
// [region, id, key, ...] sequence (trailing elements beyond the third are
// ignored). A nil or empty sequence, or one whose three relevant elements
// are all empty, yields an anonymous-mode FAPL with no error.
//
// region and id both non-empty (key may be empty) yields an
// authenticated-mode FAPL with no error.
//
// Any other combination — exactly one of region/id nonempty, or region
// and id both empty while key is not — falls back to an anonymous-mode
// FAPL with no error, matching the original populate_ros3_fapl: these
// are reported to the caller as "not authenticated", never as a failure.
//
// A field exceeding its maximum length falls back the same way: no
// error, with any fields already validated before the overflowing one
// preserved in the returned FAPL, and the overflowing field and all
// after it left empty.
func PopulateROS3FAPL(values []string) (ROS3FAPL, error) {
	fapl := ROS3FAPL{Version: CurrentROS3FAPLVersion}

	if len(values) == 0 {
		return fapl, nil
	}

	region := elemAt(values, 0)
	id := elemAt(values, 1)
	key := elemAt(values, 2)

	if len(region) > ros3MaxRegionLen {
		return fapl, nil
	}
	fapl.Region = region

	if len(id) > ros3MaxSecretIDLen {
		return fapl, nil
	}
	fapl.SecretID = id

	if len(key) > ros3MaxSecretKeyLen {
		return fapl, nil
	}
	fapl.SecretKey = key

	switch {
	case region == "" && id == "" && key == "":
		return fapl, nil
	case region != "" && id != "":
		fapl.Authenticate = true
		return fapl, nil
	default:
		return ROS3FAPL{Version: CurrentROS3FAPLVersion}, nil
	}
}

func elemAt(values []string, i int) string {
	if i >= len(values) {
		return ""
	}
	return values[i]
}
