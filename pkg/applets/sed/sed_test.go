package sed_test

import (
	"testing"

	"github.com/rcarmo/go-zed/pkg/applets/sed"
	"github.com/rcarmo/go-zed/pkg/core"
	"github.com/rcarmo/go-zed/pkg/testutil"
)

func TestSed(t *testing.T) {
	tests := []testutil.AppletTestCase{
		{
			Name:     "substitute_first",
			Args:     []string{"s/X/Y/"},
			Input:    "aXbXc\n",
			WantCode: core.ExitSuccess,
			WantOut:  "aYbXc\n",
		},
		{
			Name:     "substitute_global",
			Args:     []string{"s/X/Y/g", "in.txt"},
			WantCode: core.ExitSuccess,
			WantOut:  "aYbYc\nY\n",
			Files:    map[string]string{"in.txt": "aXbXc\nX\n"},
		},
		{
			Name:     "expression_flag",
			Args:     []string{"-e", "s/a/b/", "in.txt"},
			WantCode: core.ExitSuccess,
			WantOut:  "b\n",
			Files:    map[string]string{"in.txt": "a\n"},
		},
		{
			Name:     "delete",
			Args:     []string{"/DEBUG/d"},
			Input:    "keep\nDEBUG: drop\nkeep2\n",
			WantCode: core.ExitSuccess,
			WantOut:  "keep\nkeep2\n",
		},
		{
			Name:     "print_quiet",
			Args:     []string{"-n", "/DEBUG/p"},
			Input:    "keep\nDEBUG: drop\nkeep2\n",
			WantCode: core.ExitSuccess,
			WantOut:  "DEBUG: drop\n",
		},
		{
			Name:      "print_needs_quiet",
			Args:      []string{"/DEBUG/p"},
			Input:     "DEBUG\n",
			WantCode:  core.ExitUsage,
			WantEmpty: true,
			WantErr:   "needs -n",
		},
		{
			Name:     "quiet_with_substitute",
			Args:     []string{"-n", "s/a/b/"},
			Input:    "a\n",
			WantCode: core.ExitUsage,
		},
		{
			Name:      "field_form_unsupported",
			Args:      []string{"{print $1}"},
			Input:     "a b\n",
			WantCode:  core.ExitUsage,
			WantEmpty: true,
			WantErr:   "unsupported command",
		},
		{
			Name:     "unrecognized_script",
			Args:     []string{"y/abc/xyz/"},
			Input:    "abc\n",
			WantCode: core.ExitUsage,
			WantErr:  "sed: unrecognized expression",
		},
		{
			Name:     "two_scripts",
			Args:     []string{"-e", "s/a/b/", "-e", "s/b/c/"},
			WantCode: core.ExitUsage,
			WantErr:  "only one script",
		},
		{
			Name:     "missing_script",
			Args:     []string{},
			WantCode: core.ExitUsage,
			WantErr:  "sed: missing script",
		},
		{
			Name:     "missing_file",
			Args:     []string{"s/a/b/", "nope.txt"},
			WantCode: core.ExitFailure,
			WantErr:  "sed: missing input",
		},
	}

	testutil.RunAppletTests(t, sed.Run, tests)
}
