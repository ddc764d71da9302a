package common_test

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/andrew-torda/ssbond/pkg/common"
)

func TestExitCode(t *testing.T) {
	for _, tt := range []struct {
		err  error
		want int
	}{
		{nil, common.ExitSuccess},
		{fmt.Errorf("open: %w", os.ErrNotExist), common.ExitFailure},
		{fmt.Errorf("%w: need two files", common.ErrUsage), common.ExitUsageError},
	} {
		if got := common.ExitCode(tt.err); got != tt.want {
			t.Errorf("ExitCode(%v) got %d want %d", tt.err, got, tt.want)
		}
	}
}

func TestWrtTemp(t *testing.T) {
	const s = "SSBOND stuff\n"
	name, err := common.WrtTemp(s, ".pdb")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(name)
	if !strings.HasSuffix(name, ".pdb") {
		t.Errorf("name %s lost its suffix", name)
	}
	b, err := os.ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != s {
		t.Errorf("got %q want %q", b, s)
	}
}
