package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// renameDocument is a match document for one commit that renames a method.
func renameDocument(commitID string) string {
	return fmt.Sprintf(`commit: %s
entities:
  - {id: a1, kind: class, namespace: p, name: A, file: A.java}
  - {id: a1.run, kind: method, namespace: p.A, name: run, parent: a1, file: A.java, return_type: void}
  - {id: a2, kind: class, namespace: p, name: A, file: A.java}
  - {id: a2.start, kind: method, namespace: p.A, name: start, parent: a2, file: A.java, return_type: void}
matched_entities:
  - {old: a1, new: a2}
  - {old: a1.run, new: a2.start}
`, commitID)
}

// writeDocument writes content to dir/name, creating parent directories.
func writeDocument(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
