package s3comms

import (
	"reflect"
	"testing"
)

func TestParseTuple(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		sep     byte
		want    []string
		wantErr bool
	}{
		{name: "basic", input: "(a,b,c)", sep: ',', want: []string{"a", "b", "c"}},
		{name: "empty elements", input: "(,,)", sep: ',', want: []string{"", "", ""}},
		{name: "escaped separator", input: `(a\,b,c)`, sep: ',', want: []string{"a,b", "c"}},
		{name: "escaped backslash", input: `(a\\b,c)`, sep: ',', want: []string{`a\b`, "c"}},
		{name: "nested parens ordinary", input: "(a(b)c,d)", sep: ',', want: []string{"a(b)c", "d"}},
		{name: "single element", input: "(only)", sep: ',', want: []string{"only"}},
		{name: "not a tuple", input: "abc", sep: ',', wantErr: true},
		{name: "unterminated", input: "(a,b", sep: ',', wantErr: true},
		{name: "dangling escape", input: `(a\`, sep: ',', wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseTuple(tt.input, tt.sep)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseTuple(%q) = %v, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTuple(%q) returned error: %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ParseTuple(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPopulateROS3FAPL(t *testing.T) {
	t.Parallel()

	overflowRegion := make([]byte, ros3MaxRegionLen+1)
	for i := range overflowRegion {
		overflowRegion[i] = 'r'
	}
	overflowID := make([]byte, ros3MaxSecretIDLen+1)
	for i := range overflowID {
		overflowID[i] = 'i'
	}
	overflowKey := make([]byte, ros3MaxSecretKeyLen+1)
	for i := range overflowKey {
		overflowKey[i] = 'k'
	}

	tests := []struct {
		name    string
		values  []string
		want    ROS3FAPL
		wantErr bool
	}{
		{
			name: "absent sequence is anonymous",
			want: ROS3FAPL{Version: CurrentROS3FAPLVersion},
		},
		{
			name:   "all empty is anonymous",
			values: []string{"", "", ""},
			want:   ROS3FAPL{Version: CurrentROS3FAPLVersion},
		},
		{
			name:   "full set is authenticated, extra ignored",
			values: []string{"x", "y", "z", "a"},
			want: ROS3FAPL{
				Version: CurrentROS3FAPLVersion, Authenticate: true,
				Region: "x", SecretID: "y", SecretKey: "z",
			},
		},
		{
			name:   "empty region, non-empty id and key falls back to anonymous",
			values: []string{"", "y", "z"},
			want:   ROS3FAPL{Version: CurrentROS3FAPLVersion},
		},
		{
			name:   "empty id, non-empty region and key falls back to anonymous",
			values: []string{"x", "", "z"},
			want:   ROS3FAPL{Version: CurrentROS3FAPLVersion},
		},
		{
			name:   "empty key, non-empty region and id is authenticated",
			values: []string{"x", "y", ""},
			want: ROS3FAPL{
				Version: CurrentROS3FAPLVersion, Authenticate: true,
				Region: "x", SecretID: "y", SecretKey: "",
			},
		},
		{
			name:   "empty key and region, non-empty id falls back to anonymous",
			values: []string{"", "y", ""},
			want:   ROS3FAPL{Version: CurrentROS3FAPLVersion},
		},
		{
			name:   "empty key and id, non-empty region falls back to anonymous",
			values: []string{"x", "", ""},
			want:   ROS3FAPL{Version: CurrentROS3FAPLVersion},
		},
		{
			name:   "region overflow falls back to anonymous",
			values: []string{string(overflowRegion), "y", "z"},
			want:   ROS3FAPL{Version: CurrentROS3FAPLVersion},
		},
		{
			name:   "id overflow preserves region",
			values: []string{"x", string(overflowID), "z"},
			want:   ROS3FAPL{Version: CurrentROS3FAPLVersion, Region: "x"},
		},
		{
			name:   "key overflow preserves region and id",
			values: []string{"x", "y", string(overflowKey)},
			want:   ROS3FAPL{Version: CurrentROS3FAPLVersion, Region: "x", SecretID: "y"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := PopulateROS3FAPL(tt.values)
			if (err != nil) != tt.wantErr {
				t.Fatalf("PopulateROS3FAPL(%v) error = %v, wantErr %v", tt.values, err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("PopulateROS3FAPL(%v) = %+v, want %+v", tt.values, got, tt.want)
			}
		})
	}
}
