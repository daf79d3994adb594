package msgcat

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderEmbedded(t *testing.T) {
	c := MustDefault()

	got, err := c.Render("help.title", map[string]any{"Name": "fake"})
	require.NoError(t, err)
	assert.Equal(t, "Commande fake :", got)

	got, err = c.Render("help.aliases", map[string]any{"Aliases": []string{"h", "aide"}})
	require.NoError(t, err)
	assert.Equal(t, "__Alias__ : `h`, `aide`", got)

	assert.Equal(t, "❌ • Membre spécifié invalide.", c.Text("notice.invalid_member", nil))
}

func TestMissingKeysAndFields(t *testing.T) {
	c := MustDefault()

	_, err := c.Render("nope", nil)
	assert.Error(t, err)
	assert.Equal(t, "nope", c.Text("nope", nil))

	_, err = c.Render("help.title", map[string]any{})
	assert.Error(t, err, "missing template field")
}

func TestStatuses(t *testing.T) {
	c := MustDefault()
	statuses := c.List("statuses")
	require.NotEmpty(t, statuses)

	statuses[0] = "mutated"
	assert.NotEqual(t, "mutated", c.List("statuses")[0])
}

func TestOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "10-notice.yaml"), []byte(`
notice:
  invalid_member: "Qui ça ?"
statuses: ["a", "b"]
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x: y"), 0o644))

	c, err := New(dir)
	require.NoError(t, err)
	assert.Equal(t, "Qui ça ?", c.Text("notice.invalid_member", nil))
	assert.Equal(t, "❌ • Rôle spécifié invalide.", c.Text("notice.invalid_role", nil))
	assert.Equal(t, []string{"a", "b"}, c.List("statuses"))
}

func TestOverrideRejectsNonStrings(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yml"), []byte("notice:\n  invalid_member: 42\n"), 0o644))

	_, err := New(dir)
	assert.Error(t, err)
}
