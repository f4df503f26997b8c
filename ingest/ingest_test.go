package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/hashcrack/digest"
)

const (
	hexA = "6ca13d52ca70c883e0f0bb101e425a89e8624de51db2d2392593af6a84118090"
	hexB = "97193f3095a7fc166ae10276c083735b41a36abdaac6a33e62d15b7eafa22a67"
	hexC = "237dd1639d476eda038aff4b83283e3c657a9f38b50c2d7177336d344fe8992e"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadArgs(t *testing.T) {
	in, err := Read(digest.SHA256, []string{hexA, hexB}, nil, nil)
	require.NoError(t, err)
	require.Len(t, in.Targets, 2)
	assert.Equal(t, hexA, in.Targets[0].Hex())
	assert.Equal(t, hexB, in.Targets[1].Hex())
}

func TestReadArgsUpperCase(t *testing.T) {
	in, err := Read(digest.SHA256, []string{strings.ToUpper(hexA)}, nil, nil)
	require.NoError(t, err)
	require.Len(t, in.Targets, 1)
	assert.Equal(t, hexA, in.Targets[0].Hex())
}

func TestReadBadArgAborts(t *testing.T) {
	_, err := Read(digest.SHA256, []string{hexA, "zz13d52"}, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zz13d52")
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "dump.txt",
		"some log line\n"+
			"the hash is "+hexA+" apparently\n"+
			"not-a-hash deadbeef\n"+
			hexB+":"+hexC+"\n")

	in, err := Read(digest.SHA256, nil, []string{path}, nil)
	require.NoError(t, err)
	assert.Len(t, in.Targets, 3)

	require.Len(t, in.Files, 1)
	assert.NoError(t, in.Files[0].Err)
	assert.Len(t, in.Files[0].Digests, 3)
}

func TestReadFileSilentlySkipsJunkLines(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "junk.txt", "ggggg\n\n12345\n"+strings.Repeat("a", 63)+"\n")

	in, err := Read(digest.SHA256, nil, []string{path}, nil)
	require.NoError(t, err)
	assert.Empty(t, in.Targets)
}

func TestReadMissingFileIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.txt", hexA+"\n")
	missing := filepath.Join(dir, "missing.txt")

	in, err := Read(digest.SHA256, nil, []string{missing, good}, nil)
	require.NoError(t, err)
	assert.Len(t, in.Targets, 1)

	require.Len(t, in.Files, 2)
	assert.Error(t, in.Files[0].Err)
	assert.NoError(t, in.Files[1].Err)
}

func TestReadStdin(t *testing.T) {
	in, err := Read(digest.SHA256, nil, nil, strings.NewReader("piped "+hexB+"\n"))
	require.NoError(t, err)
	require.Len(t, in.Targets, 1)
	assert.Equal(t, hexB, in.Targets[0].Hex())
}

func TestReadDeduplicatesAcrossSources(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "dup.txt", hexA+"\n"+strings.ToUpper(hexA)+"\n")

	in, err := Read(digest.SHA256, []string{hexA}, []string{path}, strings.NewReader(hexA))
	require.NoError(t, err)
	assert.Len(t, in.Targets, 1)
	// The per-file record still lists every occurrence it saw.
	require.Len(t, in.Files, 1)
	assert.Len(t, in.Files[0].Digests, 2)
}

func TestReadMD5Width(t *testing.T) {
	md5Hex := "e99a18c428cb38d5f260853678922e03"
	in, err := Read(digest.MD5, nil, nil, strings.NewReader(md5Hex+" and "+hexA))
	require.NoError(t, err)
	require.Len(t, in.Targets, 1)
	assert.Equal(t, md5Hex, in.Targets[0].Hex())
}
