package s3comms

import "testing"

func TestParseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    *ParsedURL
		wantErr bool
	}{
		{
			name:  "scheme host path query",
			input: "http://bucket.example.com/data.h5?x=1",
			want: &ParsedURL{
				Scheme: "http", Host: "bucket.example.com",
				Path: "data.h5", HasPath: true,
				Query: "x=1", HasQuery: true,
			},
		},
		{
			name:  "ipv6 bracketed host with port, no path or query",
			input: "https://[::1]:9000/",
			want: &ParsedURL{
				Scheme: "https", Host: "[::1]",
				Port: "9000", HasPort: true,
			},
		},
		{
			name:  "host only",
			input: "https://bucket.example.com",
			want:  &ParsedURL{Scheme: "https", Host: "bucket.example.com"},
		},
		{
			name:  "uppercase scheme lowercased",
			input: "HTTPS://host",
			want:  &ParsedURL{Scheme: "https", Host: "host"},
		},
		{
			name:  "scheme with allowed punctuation",
			input: "s3+zip://host/path",
			want: &ParsedURL{
				Scheme: "s3+zip", Host: "host",
				Path: "path", HasPath: true,
			},
		},
		{name: "empty input", input: "", wantErr: true},
		{name: "missing separator", input: "http//host", wantErr: true},
		{name: "empty scheme", input: "://host", wantErr: true},
		{name: "disallowed scheme char", input: "ht!tp://host", wantErr: true},
		{name: "empty host", input: "http://", wantErr: true},
		{name: "empty host before path", input: "http:///path", wantErr: true},
		{name: "non digit port", input: "http://host:abc/path", wantErr: true},
		{name: "empty port", input: "http://host:/path", wantErr: true},
		{name: "empty query", input: "http://host?", wantErr: true},
		{name: "unterminated ipv6 host", input: "http://[::1/path", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseURL(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseURL(%q) = %+v, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseURL(%q) returned error: %v", tt.input, err)
			}
			if *got != *tt.want {
				t.Fatalf("ParseURL(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseURLPathNeverHasLeadingSlash(t *testing.T) {
	t.Parallel()
	got, err := ParseURL("http://host/a/b/c")
	if err != nil {
		t.Fatal(err)
	}
	if got.Path[0] == '/' {
		t.Fatalf("stored path %q must not begin with '/'", got.Path)
	}
	if got.Path != "a/b/c" {
		t.Fatalf("got path %q, want %q", got.Path, "a/b/c")
	}
}
