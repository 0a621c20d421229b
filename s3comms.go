// Package s3comms provides fast, synchronous, range-based read access to
// objects stored in Amazon S3 (or an S3-compatible service), authenticated
// with AWS Signature Version 4.
//
// It exposes a narrow handle-based surface — Open, Size, Read, Close — so
// that a remote object can be consumed as if it were a local, random-access
// file. There is no support for writes, multipart upload, or bucket
// listing, retry/backoff beyond the underlying HTTP client, or concurrent
// use of a single Handle.
package s3comms

import (
	"io"
	"log"
)

// internalLogger wraps the standard library log package so that debug
// output can be toggled without littering call sites with conditionals.
type internalLogger struct {
	*log.Logger
	debug bool
}

var logger internalLogger

func (l *internalLogger) debugPrintln(v ...interface{}) {
	if logger.debug {
		logger.Println(v...)
	}
}

func (l *internalLogger) debugPrintf(format string, v ...interface{}) {
	if logger.debug {
		logger.Printf(format, v...)
	}
}

// SetLogger wraps the standard library log package.
//
// It allows the internal logging of s3comms to be directed to a desired
// output and format. Setting debug to true enables debug logging output.
// s3comms does not log output by default.
func SetLogger(out io.Writer, prefix string, flag int, debug bool) {
	logger = internalLogger{
		log.New(out, prefix, flag),
		debug,
	}
}

// Initialize internal logger to log to no-op (io.Discard) by default.
func init() {
	logger = internalLogger{
		log.New(io.Discard, "", log.LstdFlags),
		false,
	}
}
