package blk_test

import (
	"os"
	"strings"
	"testing"

	"github.com/rcarmo/go-zed/pkg/applets/blk"
	"github.com/rcarmo/go-zed/pkg/core"
	"github.com/rcarmo/go-zed/pkg/testutil"
)

func TestBlk(t *testing.T) {
	page := strings.Repeat("a", 4096) + "bcdefghij"

	tests := []testutil.AppletTestCase{
		{
			Name:     "read_range",
			Args:     []string{"read", "data", "2", "3"},
			WantCode: core.ExitSuccess,
			WantOut:  "234",
			Files:    map[string]string{"data": "0123456789"},
		},
		{
			Name:     "read_crosses_block",
			Args:     []string{"read", "data", "4094", "5"},
			WantCode: core.ExitSuccess,
			WantOut:  "aabcd",
			Files:    map[string]string{"data": page},
		},
		{
			Name:     "read_hex_offset",
			Args:     []string{"read", "data", "0x1000", "3"},
			WantCode: core.ExitSuccess,
			WantOut:  "bcd",
			Files:    map[string]string{"data": page},
		},
		{
			Name:     "read_aligned",
			Args:     []string{"read", "-a", "data", "4097", "2"},
			WantCode: core.ExitSuccess,
			WantOut:  "cd",
			Files:    map[string]string{"data": page},
		},
		{
			Name:      "read_past_eof",
			Args:      []string{"read", "data", "100", "10"},
			WantCode:  core.ExitSuccess,
			WantEmpty: true,
			Files:     map[string]string{"data": "short"},
		},
		{
			Name:      "write_at_offset",
			Args:      []string{"write", "data", "3"},
			Input:     "XY",
			WantCode:  core.ExitSuccess,
			WantEmpty: true,
			Files:     map[string]string{"data": "0123456789"},
			Check: func(t *testing.T, dir string) {
				testutil.AssertFileContent(t, dir+"/data", "012XY56789")
			},
		},
		{
			Name:     "write_creates_file",
			Args:     []string{"write", "new", "2"},
			Input:    "hi",
			WantCode: core.ExitSuccess,
			Check: func(t *testing.T, dir string) {
				testutil.AssertFileContent(t, dir+"/new", "\x00\x00hi")
			},
		},
		{
			Name:     "write_aligned_lands_on_boundary",
			Args:     []string{"write", "-a", "data", "4100"},
			Input:    "ZZ",
			WantCode: core.ExitSuccess,
			Files:    map[string]string{"data": page},
			Check: func(t *testing.T, dir string) {
				got, err := os.ReadFile(dir + "/data")
				if err != nil {
					t.Fatal(err)
				}
				if len(got) != len(page) {
					t.Fatalf("file length = %d, want %d", len(got), len(page))
				}
				if string(got[4096:4098]) != "ZZ" {
					t.Errorf("block start = %q, want %q", got[4096:4098], "ZZ")
				}
			},
		},
		{
			Name:     "missing_file",
			Args:     []string{"read", "nope", "0", "1"},
			WantCode: core.ExitFailure,
			WantErr:  "blk: nope: no such file or directory",
		},
		{
			Name:     "bad_offset",
			Args:     []string{"read", "data", "abc", "1"},
			WantCode: core.ExitUsage,
			WantErr:  "invalid offset: abc",
			Files:    map[string]string{"data": "x"},
		},
		{
			Name:     "bad_length",
			Args:     []string{"read", "data", "0", "-1"},
			WantCode: core.ExitUsage,
			Files:    map[string]string{"data": "x"},
		},
		{
			Name:     "overflow",
			Args:     []string{"read", "data", "0xffffffffffffffff", "1"},
			WantCode: core.ExitFailure,
			WantErr:  "exceeds addressable",
			Files:    map[string]string{"data": "x"},
		},
		{
			Name:     "missing_command",
			Args:     []string{},
			WantCode: core.ExitUsage,
			WantErr:  "blk: missing command",
		},
		{
			Name:     "unknown_command",
			Args:     []string{"trim", "data"},
			WantCode: core.ExitUsage,
			WantErr:  "unknown command: trim",
		},
		{
			Name:     "read_wrong_arity",
			Args:     []string{"read", "data", "0"},
			WantCode: core.ExitUsage,
			WantErr:  "read needs FILE OFFSET LENGTH",
		},
		{
			Name:     "help",
			Args:     []string{"-h"},
			WantCode: core.ExitSuccess,
			WantErr:  "Usage: blk",
		},
	}

	testutil.RunAppletTests(t, blk.Run, tests)
}
