// Command h5s3get is a small collaborator CLI around the s3comms package:
// it opens an S3 (or S3-compatible) object by URL, prints its size, and
// optionally downloads a byte range to a local file or stdout.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/minio/cli"

	"github.com/hdfgroup/h5s3comms"
)

var errorColor = color.New(color.FgRed, color.Bold)
var okColor = color.New(color.FgGreen)

func fatalIf(err error, msg string) {
	if err == nil {
		return
	}
	errorColor.Fprintf(os.Stderr, "h5s3get: %s: %v\n", msg, err)
	os.Exit(1)
}

var helpTemplate = `NAME:
  {{.Name}} - {{.Usage}}

USAGE:
  {{.Name}} {{if .VisibleFlags}}[FLAGS] {{end}}URL

FLAGS:
  {{range .VisibleFlags}}{{.}}
  {{end}}
EXAMPLES:
   1. Print the size of an anonymously-readable object
      $ {{.Name}} https://bucket.s3.amazonaws.com/key

   2. Download the range bytes=10-20 of an authenticated object to out.bin
      $ {{.Name}} --ros3 "(us-east-1,AKIDEXAMPLE,secret)" --offset 10 --length 10 -o out.bin https://bucket.s3.amazonaws.com/key
`

func main() {
	app := cli.NewApp()
	app.Name = "h5s3get"
	app.Usage = "fetch byte ranges from an S3 object over the S3 communications core"
	app.CustomAppHelpTemplate = helpTemplate
	app.HideHelpCommand = true
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "ros3",
			Usage: "ROS3 credential tuple \"(region,secret-id,secret-key)\"",
		},
		cli.StringFlag{
			Name:  "offset",
			Usage: "byte offset to start reading from",
			Value: "0",
		},
		cli.StringFlag{
			Name:  "length",
			Usage: "number of bytes to read (0 means to end of object when offset > 0, or whole object when offset is also 0)",
			Value: "0",
		},
		cli.StringFlag{
			Name:  "o",
			Usage: "output file (default: stdout)",
		},
		cli.BoolFlag{
			Name:  "verbose",
			Usage: "print the parsed URL fields before reading",
		},
	}
	app.Action = runGet

	if err := app.Run(os.Args); err != nil {
		fatalIf(err, "command failed")
	}
}

func runGet(ctx *cli.Context) error {
	args := ctx.Args()
	if len(args) != 1 {
		cli.ShowAppHelp(ctx)
		return fmt.Errorf("exactly one URL argument is required")
	}
	rawURL := args[0]

	var region, accessKeyID string
	var signingKey []byte
	if tuple := ctx.String("ros3"); tuple != "" {
		values, err := s3comms.ParseTuple(tuple, ',')
		fatalIf(err, "could not parse --ros3 tuple")

		// PopulateROS3FAPL never fails: an incomplete or overflowing
		// credential set silently falls back to anonymous access rather
		// than aborting the request.
		fapl, _ := s3comms.PopulateROS3FAPL(values)

		if fapl.Authenticate {
			region = fapl.Region
			accessKeyID = fapl.SecretID
			date := s3comms.RealClock{}.Now().Format("20060102")
			signingKey = s3comms.SigningKey(fapl.SecretKey, fapl.Region, date)
		} else {
			errorColor.Fprintln(os.Stderr, "h5s3get: --ros3 credentials incomplete, falling back to anonymous access")
		}
	}

	if ctx.Bool("verbose") {
		printParsedURL(rawURL)
	}

	h, err := s3comms.Open(rawURL, region, accessKeyID, signingKey, nil)
	fatalIf(err, "could not open object")
	defer h.Close()

	okColor.Printf("object size: %s (%d bytes)\n", humanize.Bytes(h.Size()), h.Size())

	offset, err := strconv.ParseUint(ctx.String("offset"), 10, 64)
	fatalIf(err, "invalid --offset")
	length, err := strconv.ParseUint(ctx.String("length"), 10, 64)
	fatalIf(err, "invalid --length")

	if offset == 0 && length == 0 && !ctx.IsSet("offset") && !ctx.IsSet("length") && ctx.String("o") == "" {
		return nil
	}

	var out io.Writer = os.Stdout
	if path := ctx.String("o"); path != "" {
		f, err := os.Create(path)
		fatalIf(err, "could not create output file")
		defer f.Close()
		out = f
	}

	if err := h.Read(offset, length, out); err != nil {
		fatalIf(err, "read failed")
	}
	return nil
}

func printParsedURL(rawURL string) {
	purl, err := s3comms.ParseURL(rawURL)
	fatalIf(err, "could not parse URL")

	t := table.NewWriter()
	t.SetOutputMirror(os.Stderr)
	t.AppendHeader(table.Row{"field", "present", "value"})
	t.AppendRow(table.Row{"scheme", true, purl.Scheme})
	t.AppendRow(table.Row{"host", true, purl.Host})
	t.AppendRow(table.Row{"port", purl.HasPort, purl.Port})
	t.AppendRow(table.Row{"path", purl.HasPath, purl.Path})
	t.AppendRow(table.Row{"query", purl.HasQuery, purl.Query})
	t.Render()
}

