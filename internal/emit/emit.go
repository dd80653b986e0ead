// Package emit walks the resolved commits graph release by release and
// writes the git fast-import stream: the initial release's blobs and a
// single commit, then for every later release a topological walk of its
// commits subgraph that emits task and object commits before a closing
// release-merge commit (§4.E).
package emit

import (
	"bufio"
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/aolsson/ccm2git/internal/fastimport"
	"github.com/aolsson/ccm2git/internal/graph"
	"github.com/aolsson/ccm2git/internal/model"
)

// Resolved carries one release window's sanitized task hypergraph and
// resolved (acyclic) commits graph, the output of
// commitgraph.PrepareRelease computed ahead of time so §4.E's walk
// stays strictly sequential while the resolution itself can run
// concurrently across releases (§5 NEW).
type Resolved struct {
	Tasks   *graph.Hypergraph
	Commits *graph.Digraph
}

// Run converts a validated release chain into a fast-import stream
// written to w, fetching blob content (if any) through blobs. resolved
// must hold one Resolved entry per non-head release in chain.Order.
func Run(chain *model.Chain, resolved map[string]*Resolved, w io.Writer, blobs fastimport.BlobSource, log *logrus.Logger) error {
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	marks := &fastimport.MarkTable{}
	commitLookup := map[string]int{}

	head := chain.Order[0]
	if err := emitInitialRelease(bw, marks, commitLookup, chain.Releases[head], blobs); err != nil {
		return errors.Wrapf(err, "initial release %s", head)
	}

	previous := head
	for _, name := range chain.Order[1:] {
		rel := chain.Releases[name]
		if log != nil {
			log.WithField("release", name).Info("converting release")
		}

		r, ok := resolved[name]
		if !ok {
			return errors.Errorf("release %s: no resolved commits graph supplied", name)
		}

		if err := emitRelease(bw, marks, commitLookup, rel, r.Tasks, r.Commits, previous, blobs); err != nil {
			return errors.Wrapf(err, "release %s", name)
		}
		previous = name
	}

	last, ok := commitLookup[previous]
	if !ok {
		return errors.Wrapf(fastimport.ErrFormatterViolation, "no commit recorded for final release %s", previous)
	}
	fastimport.WriteResetFrom(bw, "refs/heads/master", last)
	return bw.Flush()
}

func emitInitialRelease(bw *bufio.Writer, marks *fastimport.MarkTable, commitLookup map[string]int, rel *model.Release, blobs fastimport.BlobSource) error {
	objs := sortedObjects(rel.Objects)
	markLookup := map[string]int{}
	for _, o := range objs {
		if o.Type == model.TypeDir {
			continue
		}
		m := marks.Next()
		if err := fastimport.WriteBlob(bw, m, blobs, o.ObjectName); err != nil {
			return err
		}
		markLookup[o.ObjectName] = m
	}

	fastimport.WriteReset(bw, "refs/tags/"+rel.Name)
	mark := marks.Next()
	fileList := fastimport.FileList(objs, markLookup)
	record := fastimport.InitialCommit(rel.Name, mark, rel.Created.Unix(), fileList)
	fastimport.WriteCommit(bw, record)
	commitLookup[rel.Name] = mark
	return nil
}

func emitRelease(bw *bufio.Writer, marks *fastimport.MarkTable, commitLookup map[string]int, rel *model.Release, tasks *graph.Hypergraph, commits *graph.Digraph, previous string, blobs fastimport.BlobSource) error {
	repairOrphans(commits, previous)

	queue := append([]string(nil), commits.Neighbors(previous)...)
	for len(queue) != 0 && !(len(queue) == 1 && queue[0] == rel.Name) {
		n := queue[0]
		queue = queue[1:]

		if n == rel.Name {
			// The release endpoint only gets its dedicated merge commit
			// once it is the sole node left pending; defer it.
			queue = append(queue, n)
			continue
		}

		if !allResolved(commits.Incidents(n), commitLookup) {
			queue = append(queue, n)
			continue
		}

		reference, err := lookupMarks(commits.Incidents(n), commitLookup)
		if err != nil {
			return err
		}

		mark, err := emitNode(bw, marks, rel, tasks, n, reference, blobs)
		if err != nil {
			return err
		}
		commitLookup[n] = mark

		queued := toSet(queue)
		for _, nb := range commits.Neighbors(n) {
			if !queued[nb] {
				queue = append(queue, nb)
				queued[nb] = true
			}
		}
	}

	reference, err := lookupMarks(commits.Incidents(rel.Name), commitLookup)
	if err != nil {
		return err
	}
	mark := marks.Next()
	record := fastimport.ReleaseMergeCommit(rel.Name, rel.Author, rel.Created.Unix(), mark, reference)
	fastimport.WriteCommit(bw, record)
	commitLookup[rel.Name] = mark
	return nil
}

func repairOrphans(commits *graph.Digraph, previous string) {
	for _, n := range commits.Nodes() {
		if n != previous && commits.NodeOrder(n) == 0 {
			commits.AddEdge(previous, n)
		}
	}
}

func allResolved(preds []string, commitLookup map[string]int) bool {
	for _, p := range preds {
		if _, ok := commitLookup[p]; !ok {
			return false
		}
	}
	return true
}

func lookupMarks(preds []string, commitLookup map[string]int) ([]int, error) {
	marks := make([]int, 0, len(preds))
	for _, p := range preds {
		m, ok := commitLookup[p]
		if !ok {
			return nil, errors.Wrapf(fastimport.ErrFormatterViolation, "no mark recorded for parent %s", p)
		}
		marks = append(marks, m)
	}
	if len(marks) == 0 {
		return nil, errors.Wrap(fastimport.ErrFormatterViolation, "commit has no parent")
	}
	return marks, nil
}

func emitNode(bw *bufio.Writer, marks *fastimport.MarkTable, rel *model.Release, tasks *graph.Hypergraph, node string, reference []int, blobs fastimport.BlobSource) (int, error) {
	if tasks.HasEdge(node) {
		return emitTaskCommit(bw, marks, rel, tasks, node, reference, blobs)
	}
	return emitObjectCommit(bw, marks, rel, node, reference, blobs)
}

func emitTaskCommit(bw *bufio.Writer, marks *fastimport.MarkTable, rel *model.Release, tasks *graph.Hypergraph, taskID string, reference []int, blobs fastimport.BlobSource) (int, error) {
	members := tasks.NodesOfEdge(taskID)
	objects := make([]*model.FileObject, 0, len(members))
	for _, name := range members {
		if o, ok := rel.Objects[name]; ok {
			objects = append(objects, o)
		}
	}
	objects = fastimport.ReduceObjectsForCommit(objects)

	markLookup := map[string]int{}
	for _, o := range objects {
		if o.Type == model.TypeDir {
			continue
		}
		m := marks.Next()
		if err := fastimport.WriteBlob(bw, m, blobs, o.ObjectName); err != nil {
			return 0, err
		}
		markLookup[o.ObjectName] = m
	}

	task := resolveTask(rel, taskID, members)
	fileList := fastimport.FileList(objects, markLookup)
	mark := marks.Next()
	record := fastimport.TaskCommit("refs/tags/"+rel.Name, mark, task, reference, fileList)
	fastimport.WriteCommit(bw, record)
	return mark, nil
}

func emitObjectCommit(bw *bufio.Writer, marks *fastimport.MarkTable, rel *model.Release, objectName string, reference []int, blobs fastimport.BlobSource) (int, error) {
	o, ok := rel.Objects[objectName]
	if !ok {
		return 0, errors.Wrapf(model.ErrMalformedInput, "commits graph references unknown object %s", objectName)
	}

	markLookup := map[string]int{}
	if o.Type != model.TypeDir {
		m := marks.Next()
		if err := fastimport.WriteBlob(bw, m, blobs, o.ObjectName); err != nil {
			return 0, err
		}
		markLookup[o.ObjectName] = m
	}

	fileList := fastimport.FileList([]*model.FileObject{o}, markLookup)
	mark := marks.Next()
	record := fastimport.ObjectCommit("refs/tags/"+rel.Name, mark, o, reference, fileList)
	fastimport.WriteCommit(bw, record)
	return mark, nil
}

// resolveTask returns the Task record driving a (possibly split)
// commits-graph task node's commit message. A node produced by the cycle
// resolver's split (<task>_k) reuses its original task's record under
// the split id. A node with no original task record, such as the
// sanitizer's overlap merge (common-<t1>-<t2>), has its metadata
// synthesized from its current file members: the alphabetically first
// member's author, and the latest integrate time among them as the
// completion time.
func resolveTask(rel *model.Release, taskID string, members []string) *model.Task {
	if t, ok := rel.Tasks[baseTaskName(taskID)]; ok {
		if taskID == baseTaskName(taskID) {
			return t
		}
		synth := *t
		synth.ObjectName = taskID
		return &synth
	}
	return synthesizeTask(rel, taskID, members)
}

// baseTaskName strips every trailing "_<digits>" suffix the resolver's
// freshTaskName may have appended, recovering the original task id.
func baseTaskName(id string) string {
	for {
		idx := strings.LastIndexByte(id, '_')
		if idx < 0 {
			return id
		}
		suffix := id[idx+1:]
		if suffix == "" || !isDigits(suffix) {
			return id
		}
		id = id[:idx]
	}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func synthesizeTask(rel *model.Release, taskID string, members []string) *model.Task {
	sorted := append([]string(nil), members...)
	sort.Strings(sorted)

	task := &model.Task{
		ObjectName: taskID,
		Objects:    sorted,
		Attributes: map[string]model.AttrValue{
			"task_synopsis":    {Scalar: taskID},
			"task_description": {Scalar: "synthetic task created by history conversion"},
		},
	}
	for _, name := range sorted {
		if o, ok := rel.Objects[name]; ok {
			if task.Author == "" {
				task.Author = o.Author
			}
			if o.IntegrateTime.After(task.CompleteTime) {
				task.CompleteTime = o.IntegrateTime
			}
		}
	}
	return task
}

func toSet(xs []string) map[string]bool {
	s := make(map[string]bool, len(xs))
	for _, x := range xs {
		s[x] = true
	}
	return s
}

func sortedObjects(objects map[string]*model.FileObject) []*model.FileObject {
	names := make([]string, 0, len(objects))
	for name := range objects {
		names = append(names, name)
	}
	sort.Strings(names)
	result := make([]*model.FileObject, 0, len(names))
	for _, name := range names {
		result = append(result, objects[name])
	}
	return result
}
