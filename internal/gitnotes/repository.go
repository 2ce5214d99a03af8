package gitnotes

import (
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"gtmd/internal/models"
)

// Repository reads the time annotations stored under models.NotesRef.
type Repository struct {
	repo *git.Repository
	ref  plumbing.ReferenceName
}

// Open opens the repository containing path, looking for .git in parent
// directories.
func Open(path string) (models.NotesRepositoryInterface, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening repository %s: %w", path, err)
	}
	return New(repo), nil
}

func New(repo *git.Repository) *Repository {
	return &Repository{
		repo: repo,
		ref:  plumbing.ReferenceName(models.NotesRef),
	}
}

// notesTree returns the tree of the notes ref tip, nil when the ref does not exist.
func (r *Repository) notesTree() (*object.Commit, *object.Tree, error) {
	ref, err := r.repo.Reference(r.ref, true)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	commit, err := r.repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, nil, fmt.Errorf("reading notes commit: %w", err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, nil, fmt.Errorf("reading notes tree: %w", err)
	}
	return commit, tree, nil
}

func (r *Repository) Note(hash string) (string, error) {
	_, tree, err := r.notesTree()
	if err != nil {
		return "", err
	}
	if tree == nil || !isHash(hash) {
		return "", models.ErrNoteNotFound
	}
	for _, name := range []string{hash, hash[:2] + "/" + hash[2:]} {
		file, err := tree.File(name)
		if errors.Is(err, object.ErrFileNotFound) {
			continue
		}
		if err != nil {
			return "", err
		}
		return file.Contents()
	}
	return "", models.ErrNoteNotFound
}

// ForEachNote walks flat and fan-out note trees in hash order. Entries that
// are not commit hashes, or whose commit is not in the repository, are
// skipped. A flat note shadows a fan-out note of the same commit, as in Note.
func (r *Repository) ForEachNote(fn func(models.CommitInfo, string) error) error {
	_, tree, err := r.notesTree()
	if err != nil || tree == nil {
		return err
	}

	notes := make(map[string]*object.File)
	files := tree.Files()
	defer files.Close()
	err = files.ForEach(func(file *object.File) error {
		hash := strings.ReplaceAll(file.Name, "/", "")
		if !isHash(hash) {
			return nil
		}
		if _, seen := notes[hash]; seen && strings.Contains(file.Name, "/") {
			return nil
		}
		notes[hash] = file
		return nil
	})
	if err != nil {
		return err
	}

	hashes := make([]string, 0, len(notes))
	for hash := range notes {
		hashes = append(hashes, hash)
	}
	sort.Strings(hashes)

	for _, hash := range hashes {
		commit, err := r.repo.CommitObject(plumbing.NewHash(hash))
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		text, err := notes[hash].Contents()
		if err != nil {
			return err
		}
		if err := fn(commitInfo(commit), text); err != nil {
			return err
		}
	}
	return nil
}

func commitInfo(c *object.Commit) models.CommitInfo {
	return models.CommitInfo{
		Hash:      c.Hash.String(),
		Author:    c.Author.Name + " <" + c.Author.Email + ">",
		Message:   c.Message,
		Committed: c.Committer.When,
		Authored:  c.Author.When,
	}
}

func isHash(s string) bool {
	if len(s) != 40 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
