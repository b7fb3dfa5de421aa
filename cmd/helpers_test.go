package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/gnames/gnlineage/internal/iotesting"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

var (
	testNames = filepath.Join("..", "internal", "ioingest", "testdata", "names.dmp")
	testNodes = filepath.Join("..", "internal", "ioingest", "testdata", "nodes.dmp")
	testLinks = filepath.Join("..", "internal", "ioingest", "testdata", "links.txt")
)

// useSQLite points the global configuration to a fresh SQLite store.
func useSQLite(t *testing.T) {
	t.Helper()
	old := cfg
	cfg = iotesting.SQLiteConfig(t)
	t.Cleanup(func() { cfg = old })
}

// execute runs a command with arguments and returns its standard output.
func execute(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	// nil arguments make cobra read os.Args
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return buf.String()
}
