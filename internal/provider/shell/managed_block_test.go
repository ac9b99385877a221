package shell

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteManagedBlock_AppendsWhenMissing(t *testing.T) {
	t.Parallel()

	content := "# my bashrc\nexport FOO=bar\n"
	updated := WriteManagedBlock(content, "profile", "block content\n")

	assert.Contains(t, updated, "# my bashrc")
	assert.Contains(t, updated, "# >>> groundwork profile >>>")
	assert.Contains(t, updated, "block content")
	assert.Contains(t, updated, "# <<< groundwork profile <<<")
}

func TestWriteManagedBlock_ReplacesExisting(t *testing.T) {
	t.Parallel()

	content := "before\n\n# >>> groundwork profile >>>\nold content\n# <<< groundwork profile <<<\nafter\n"
	updated := WriteManagedBlock(content, "profile", "new content\n")

	assert.Contains(t, updated, "before")
	assert.Contains(t, updated, "after")
	assert.Contains(t, updated, "new content")
	assert.NotContains(t, updated, "old content")
	assert.Equal(t, 1, strings.Count(updated, "# >>> groundwork profile >>>"))
}

func TestWriteManagedBlock_EmptyFile(t *testing.T) {
	t.Parallel()

	updated := WriteManagedBlock("", "profile", "content\n")
	assert.Contains(t, updated, "# >>> groundwork profile >>>")
}

func TestWriteManagedBlock_MalformedBlock(t *testing.T) {
	t.Parallel()

	// Start marker without end marker: replaced through EOF.
	content := "keep\n# >>> groundwork profile >>>\ndangling"
	updated := WriteManagedBlock(content, "profile", "fixed\n")

	assert.Contains(t, updated, "keep")
	assert.Contains(t, updated, "fixed")
	assert.NotContains(t, updated, "dangling")
	assert.Contains(t, updated, "# <<< groundwork profile <<<")
}

func TestReadManagedBlock(t *testing.T) {
	t.Parallel()

	content := "before\n# >>> groundwork profile >>>\ninner\n# <<< groundwork profile <<<\nafter\n"
	assert.Equal(t, "inner\n", ReadManagedBlock(content, "profile"))
}

func TestReadManagedBlock_Missing(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", ReadManagedBlock("no markers here\n", "profile"))
}

func TestReadWriteManagedBlock_RoundTrip(t *testing.T) {
	t.Parallel()

	updated := WriteManagedBlock("existing\n", "profile", "round trip\n")
	assert.Equal(t, "round trip\n", ReadManagedBlock(updated, "profile"))
}

func TestGenerateEnvBlock_SortedAndQuoted(t *testing.T) {
	t.Parallel()

	block := generateEnvBlock(map[string]string{
		"EDITOR": "nvim",
		"CDPATH": ".:~/work",
	})

	assert.Equal(t, "export CDPATH=\".:~/work\"\nexport EDITOR=\"nvim\"\n", block)
}

func TestGenerateAliasBlock_SortedAndQuoted(t *testing.T) {
	t.Parallel()

	block := generateAliasBlock(map[string]string{
		"ll": "ls -la",
		"gs": "git status",
	})

	assert.Equal(t, "alias gs=\"git status\"\nalias ll=\"ls -la\"\n", block)
}

func TestGenerateBlocks_Empty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", generateEnvBlock(nil))
	assert.Equal(t, "", generateAliasBlock(nil))
}
