package fastimport

import (
	"bufio"
	"fmt"

	"github.com/aolsson/ccm2git/internal/model"
)

// MarkTable hands out sequential git fast-import marks starting at 1,
// mirroring the source tool's pre-increment get_mark() counter.
type MarkTable struct {
	next int
}

// Next returns the next unused mark.
func (m *MarkTable) Next() int {
	m.next++
	return m.next
}

// Identity is a commit's author/committer pair.
type Identity struct {
	Name string
	Unix int64
}

// CommitRecord is everything needed to render one "commit" record.
type CommitRecord struct {
	Ref       string
	Mark      int
	Author    Identity
	Message   string
	From      int
	FromValid bool
	Merges    []int
	FileList  string
}

// WriteReset emits a bare "reset <ref>" record with no "from" line, used
// to create the initial release tag.
func WriteReset(w *bufio.Writer, ref string) {
	fmt.Fprintf(w, "reset %s\n", ref)
}

// WriteResetFrom emits a "reset <ref>" record pointing at mark, used for
// the final refs/heads/master update.
func WriteResetFrom(w *bufio.Writer, ref string, mark int) {
	fmt.Fprintf(w, "reset %s\nfrom :%d\n\n", ref, mark)
}

// WriteCommit emits one "commit" record.
func WriteCommit(w *bufio.Writer, c CommitRecord) {
	fmt.Fprintf(w, "commit %s\n", c.Ref)
	fmt.Fprintf(w, "mark :%d\n", c.Mark)
	fmt.Fprintf(w, "author %s %d +0000\n", c.Author.Name, c.Author.Unix)
	fmt.Fprintf(w, "committer %s %d +0000\n", c.Author.Name, c.Author.Unix)
	fmt.Fprintf(w, "data %d\n", len(c.Message))
	fmt.Fprintln(w, c.Message)
	if c.FromValid {
		fmt.Fprintf(w, "from :%d\n", c.From)
	}
	for _, m := range c.Merges {
		fmt.Fprintf(w, "merge :%d\n", m)
	}
	if c.FileList != "" {
		fmt.Fprintln(w, c.FileList)
	}
	fmt.Fprintln(w)
}

// TaskCommit builds the CommitRecord for a task node, per
// make_commit_from_task.
func TaskCommit(ref string, mark int, task *model.Task, reference []int, fileList string) CommitRecord {
	return CommitRecord{
		Ref:       ref,
		Mark:      mark,
		Author:    Identity{Name: identity(task.Author), Unix: task.CompleteTime.Unix()},
		Message:   CommitMessage(task),
		From:      reference[0],
		FromValid: true,
		Merges:    reference[1:],
		FileList:  fileList,
	}
}

// ObjectCommit builds the CommitRecord for a standalone file object not
// associated with any task, per make_commit_from_object.
func ObjectCommit(ref string, mark int, o *model.FileObject, reference []int, fileList string) CommitRecord {
	return CommitRecord{
		Ref:       ref,
		Mark:      mark,
		Author:    Identity{Name: identity(o.Author), Unix: o.IntegrateTime.Unix()},
		Message:   "Object not associated to task in release: " + o.ObjectName,
		From:      reference[0],
		FromValid: true,
		Merges:    reference[1:],
		FileList:  fileList,
	}
}

// ReleaseMergeCommit builds the CommitRecord that closes out a release,
// per create_release_merge_commit.
func ReleaseMergeCommit(release, author string, created int64, mark int, reference []int) CommitRecord {
	return CommitRecord{
		Ref:       "refs/tags/" + release,
		Mark:      mark,
		Author:    Identity{Name: identity(author), Unix: created},
		Message:   "Release " + release,
		From:      reference[0],
		FromValid: true,
		Merges:    reference[1:],
	}
}

// InitialCommit builds the CommitRecord for the very first release,
// which has no parent.
func InitialCommit(release string, mark int, created int64, fileList string) CommitRecord {
	return CommitRecord{
		Ref:      "refs/tags/" + release,
		Mark:     mark,
		Author:   Identity{Name: identity(""), Unix: created},
		Message:  "Initial commit",
		FileList: fileList,
	}
}
