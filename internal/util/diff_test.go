package util_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/commschamp/commsdslgen/internal/util"
)

func TestColorDiff(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "context only", in: " same\n", want: " same\n"},
		{
			name: "headers and hunks",
			in:   "--- a/x.h\n+++ b/x.h\n@@ -1 +1 @@\n-old\n+new\n",
			want: "\x1b[1m--- a/x.h\x1b[0m\n\x1b[1m+++ b/x.h\x1b[0m\n\x1b[36m@@ -1 +1 @@\x1b[0m\n" +
				"\x1b[31m-old\x1b[0m\n\x1b[32m+new\x1b[0m\n",
		},
		{name: "no trailing newline", in: "+tail", want: "\x1b[32m+tail\x1b[0m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, util.ColorDiff(tt.in))
		})
	}
}
