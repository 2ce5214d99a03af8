package gitnotes

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"gtmd/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testNote = "[ver:1,total:60]\nmain.go:60,1589670000:60,m"

var commitTime = time.Date(2020, 5, 20, 5, 24, 2, 0, time.FixedZone("", 2*3600))

func initRepo(t *testing.T) (string, *git.Repository) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	return dir, repo
}

func commitFile(t *testing.T, dir string, repo *git.Repository, name, message string) plumbing.Hash {
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(message), 0644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(name)
	require.NoError(t, err)
	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: "Dev", Email: "dev@example.com", When: commitTime},
	})
	require.NoError(t, err)
	return hash
}

func storeObject(t *testing.T, repo *git.Repository, encode func(plumbing.EncodedObject) error) plumbing.Hash {
	obj := repo.Storer.NewEncodedObject()
	require.NoError(t, encode(obj))
	hash, err := repo.Storer.SetEncodedObject(obj)
	require.NoError(t, err)
	return hash
}

func writeBlob(t *testing.T, repo *git.Repository, text string) plumbing.Hash {
	return storeObject(t, repo, func(obj plumbing.EncodedObject) error {
		obj.SetType(plumbing.BlobObject)
		w, err := obj.Writer()
		if err != nil {
			return err
		}
		if _, err := w.Write([]byte(text)); err != nil {
			return err
		}
		return w.Close()
	})
}

// writeTree sorts entries the way git does, directories compare as if
// their name ended with a slash.
func writeTree(t *testing.T, repo *git.Repository, entries []object.TreeEntry) plumbing.Hash {
	key := func(e object.TreeEntry) string {
		if e.Mode == filemode.Dir {
			return e.Name + "/"
		}
		return e.Name
	}
	sort.Slice(entries, func(i, j int) bool { return key(entries[i]) < key(entries[j]) })
	return storeObject(t, repo, (&object.Tree{Entries: entries}).Encode)
}

// setNotesTree commits root as the new tip of the notes ref.
func setNotesTree(t *testing.T, repo *git.Repository, root plumbing.Hash) {
	var parents []plumbing.Hash
	if ref, err := repo.Reference(plumbing.ReferenceName(models.NotesRef), true); err == nil {
		parents = append(parents, ref.Hash())
	}
	sig := object.Signature{Name: "gtm", Email: "gtm@localhost", When: time.Now()}
	commit := &object.Commit{Author: sig, Committer: sig, Message: "Notes added by 'git notes add'", TreeHash: root, ParentHashes: parents}
	tip := storeObject(t, repo, commit.Encode)
	require.NoError(t, repo.Storer.SetReference(plumbing.NewHashReference(plumbing.ReferenceName(models.NotesRef), tip)))
}

// addNotes writes a flat notes tree holding exactly notes, keyed by commit hash.
func addNotes(t *testing.T, repo *git.Repository, notes map[string]string) {
	entries := make([]object.TreeEntry, 0, len(notes))
	for hash, text := range notes {
		entries = append(entries, object.TreeEntry{Name: hash, Mode: filemode.Regular, Hash: writeBlob(t, repo, text)})
	}
	setNotesTree(t, repo, writeTree(t, repo, entries))
}

func collect(t *testing.T, r models.NotesRepositoryInterface) map[string]string {
	notes := make(map[string]string)
	require.NoError(t, r.ForEachNote(func(info models.CommitInfo, text string) error {
		_, dup := notes[info.Hash]
		assert.False(t, dup, "commit %s yielded twice", info.Hash)
		notes[info.Hash] = text
		return nil
	}))
	return notes
}

func TestOpen_NotARepository(t *testing.T) {
	_, err := Open(t.TempDir())
	assert.Error(t, err)
}

func TestOpen_DetectsParent(t *testing.T) {
	dir, _ := initRepo(t)
	sub := filepath.Join(dir, "src", "pkg")
	require.NoError(t, os.MkdirAll(sub, 0755))

	r, err := Open(sub)
	require.NoError(t, err)
	assert.Empty(t, collect(t, r))
}

func TestNote_NoNotesRef(t *testing.T) {
	dir, repo := initRepo(t)
	hash := commitFile(t, dir, repo, "a.txt", "first")

	r := New(repo)
	_, err := r.Note(hash.String())
	assert.ErrorIs(t, err, models.ErrNoteNotFound)
}

func TestNote_AndForEachNote(t *testing.T) {
	dir, repo := initRepo(t)
	first := commitFile(t, dir, repo, "a.txt", "first commit\n\nwith body")
	second := commitFile(t, dir, repo, "b.txt", "second commit")
	addNotes(t, repo, map[string]string{
		first.String():  testNote,
		second.String(): "[ver:1,total:0]",
	})

	r := New(repo)
	text, err := r.Note(first.String())
	require.NoError(t, err)
	assert.Equal(t, testNote, text)

	assert.Equal(t, map[string]string{
		first.String():  testNote,
		second.String(): "[ver:1,total:0]",
	}, collect(t, r))
}

func TestNote_LatestTipWins(t *testing.T) {
	dir, repo := initRepo(t)
	hash := commitFile(t, dir, repo, "a.txt", "first").String()
	addNotes(t, repo, map[string]string{hash: "[ver:1,total:0]"})
	addNotes(t, repo, map[string]string{hash: testNote})

	r := New(repo)
	text, err := r.Note(hash)
	require.NoError(t, err)
	assert.Equal(t, testNote, text)
	assert.Equal(t, map[string]string{hash: testNote}, collect(t, r))
}

func TestNote_InvalidHash(t *testing.T) {
	dir, repo := initRepo(t)
	hash := commitFile(t, dir, repo, "a.txt", "first").String()
	addNotes(t, repo, map[string]string{hash: testNote})

	r := New(repo)
	for _, h := range []string{"", "not-a-hash", hash[:7], "0123456789abcdef0123456789abcdef01234567"} {
		_, err := r.Note(h)
		assert.ErrorIs(t, err, models.ErrNoteNotFound, h)
	}
}

func TestForEachNote_CommitInfo(t *testing.T) {
	dir, repo := initRepo(t)
	hash := commitFile(t, dir, repo, "a.txt", "Fix parser\n\nHandles empty lines.")
	addNotes(t, repo, map[string]string{hash.String(): testNote})

	r := New(repo)
	var infos []models.CommitInfo
	require.NoError(t, r.ForEachNote(func(info models.CommitInfo, _ string) error {
		infos = append(infos, info)
		return nil
	}))
	require.Len(t, infos, 1)
	assert.Equal(t, "Dev <dev@example.com>", infos[0].Author)
	assert.Equal(t, "Fix parser\n\nHandles empty lines.", infos[0].Message)
	assert.True(t, commitTime.Equal(infos[0].Authored))

	commit := models.NewCommit(infos[0], "gtm", models.NewTimeRecord(1, 60))
	assert.Equal(t, "2020-05-20 05:24:02 +02:00", commit.When)
	assert.Equal(t, "Fix parser", commit.Subject)
}

func TestForEachNote_FanOutAndOrphans(t *testing.T) {
	dir, repo := initRepo(t)
	hash := commitFile(t, dir, repo, "a.txt", "first").String()

	blob := writeBlob(t, repo, testNote)
	orphan := writeBlob(t, repo, "[ver:1,total:1]")
	sub := writeTree(t, repo, []object.TreeEntry{{Name: hash[2:], Mode: filemode.Regular, Hash: blob}})
	setNotesTree(t, repo, writeTree(t, repo, []object.TreeEntry{
		{Name: hash[:2], Mode: filemode.Dir, Hash: sub},
		{Name: "ffffffffffffffffffffffffffffffffffffffff", Mode: filemode.Regular, Hash: orphan},
		{Name: "README", Mode: filemode.Regular, Hash: orphan},
	}))

	r := New(repo)
	assert.Equal(t, map[string]string{hash: testNote}, collect(t, r))

	text, err := r.Note(hash)
	require.NoError(t, err)
	assert.Equal(t, testNote, text)
}

func TestForEachNote_FlatShadowsFanOut(t *testing.T) {
	dir, repo := initRepo(t)
	hash := commitFile(t, dir, repo, "a.txt", "first").String()

	stale := writeBlob(t, repo, "[ver:1,total:0]")
	sub := writeTree(t, repo, []object.TreeEntry{{Name: hash[2:], Mode: filemode.Regular, Hash: stale}})
	setNotesTree(t, repo, writeTree(t, repo, []object.TreeEntry{
		{Name: hash[:2], Mode: filemode.Dir, Hash: sub},
		{Name: hash, Mode: filemode.Regular, Hash: writeBlob(t, repo, testNote)},
	}))

	r := New(repo)
	assert.Equal(t, map[string]string{hash: testNote}, collect(t, r))

	text, err := r.Note(hash)
	require.NoError(t, err)
	assert.Equal(t, testNote, text)
}

func TestForEachNote_CallbackError(t *testing.T) {
	dir, repo := initRepo(t)
	hash := commitFile(t, dir, repo, "a.txt", "first")
	addNotes(t, repo, map[string]string{hash.String(): testNote})

	err := New(repo).ForEachNote(func(models.CommitInfo, string) error {
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
}
