package sink

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
)

func TestPersistWritesLinesInOrder(t *testing.T) {
	dir := t.TempDir()

	art, err := Persist(dir, "Prog", "txt", []string{"PROC Prog()", "MOVJ A0", "ENDPROC"}, "")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "Prog.txt"), art.Path)
	data, err := os.ReadFile(art.Path)
	require.NoError(t, err)
	assert.Equal(t, "PROC Prog()\nMOVJ A0\nENDPROC\n", string(data))
	assert.Equal(t, len(data), art.Size)
	assert.Len(t, art.Digest, 64)
}

func TestPersistCreatesMissingFolder(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")

	art, err := Persist(dir, "P", "txt", []string{"x"}, UTF8)
	require.NoError(t, err)
	assert.FileExists(t, art.Path)
	assert.Equal(t, dir, filepath.Dir(art.Path))
}

func TestPersistRejectsEscapingNames(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"", ".", "..", "../evil", "sub/prog", `sub\prog`} {
		t.Run(name, func(t *testing.T) {
			_, err := Persist(dir, name, "txt", []string{"x"}, "")
			require.Error(t, err)
			assert.True(t, IsPersistenceError(err))
		})
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing written")
}

func TestPersistFolderIsAFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := Persist(file, "P", "txt", []string{"x"}, "")
	require.Error(t, err)

	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "mkdir", pe.Op)
}

func TestPersistShiftJIS(t *testing.T) {
	dir := t.TempDir()

	art, err := Persist(dir, "JP", "txt", []string{"' 溶接開始"}, ShiftJIS)
	require.NoError(t, err)

	raw, err := os.ReadFile(art.Path)
	require.NoError(t, err)
	assert.NotEqual(t, "' 溶接開始\n", string(raw), "bytes are not UTF-8")

	decoded, err := japanese.ShiftJIS.NewDecoder().Bytes(raw)
	require.NoError(t, err)
	assert.Equal(t, "' 溶接開始\n", string(decoded))
}

func TestPersistShiftJISReplacesUnsupported(t *testing.T) {
	art, err := Persist(t.TempDir(), "JP", "txt", []string{"smile 😀"}, ShiftJIS)
	require.NoError(t, err)

	raw, err := os.ReadFile(art.Path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "smile ")
}

func TestPersistUnknownEncoding(t *testing.T) {
	_, err := Persist(t.TempDir(), "P", "txt", []string{"x"}, "klingon")
	require.Error(t, err)

	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "encode", pe.Op)
}

func TestLookupEncoding(t *testing.T) {
	for _, label := range []string{"", "utf-8", "UTF-8", "shift_jis", "Shift_JIS", "euc-jp", "windows-1252"} {
		t.Run(label, func(t *testing.T) {
			enc, err := LookupEncoding(label)
			require.NoError(t, err)
			assert.NotNil(t, enc)
		})
	}
}
