package model

import (
	"encoding/json"
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/aolsson/ccm2git/internal/graph"
)

// ErrMalformedInput is returned for any structural problem with the
// snapshot: a missing chain head/tail, a dangling release link, or a
// release chain that does not cover every release.
var ErrMalformedInput = errors.New("malformed input")

// ReleaseDoc is the wire shape of one release in the extractor's snapshot.
type ReleaseDoc struct {
	Name         string       `json:"name"`
	Previous     *string      `json:"previous"`
	Next         *string      `json:"next"`
	Created      time.Time    `json:"created"`
	Author       string       `json:"author"`
	Objects      []FileObject `json:"objects"`
	Tasks        []Task       `json:"tasks"`
	FileEdges    [][2]string  `json:"file_edges"`
	TaskLinks    [][2]string  `json:"task_links"`
	ReleaseLinks [][2]string  `json:"release_links"`
}

// Snapshot is the top-level shape of the extractor's JSON document.
type Snapshot struct {
	Releases []ReleaseDoc `json:"releases"`
}

// Release is the live, in-memory form of one ReleaseDoc: its own file
// objects and tasks by identity, plus the file-history DAG, task
// hypergraph and release hypergraph scoped to this release's window.
type Release struct {
	Name     string
	Previous string
	Next     string
	Created  time.Time
	Author   string

	Objects map[string]*FileObject
	Tasks   map[string]*Task

	Files     *graph.Digraph
	TaskHG    *graph.Hypergraph
	ReleaseHG *graph.Hypergraph
}

// Chain is the release history: every release by name, plus the release
// names in chain order, starting from the release with previous == nil.
type Chain struct {
	Releases map[string]*Release
	Order    []string // release names in chain order, head first
}

// Decode parses a JSON snapshot.
func Decode(r io.Reader) (*Snapshot, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, errors.Wrap(err, "decoding snapshot")
	}
	return &snap, nil
}

// Load turns a decoded snapshot into a validated Chain.
func Load(snap *Snapshot) (*Chain, error) {
	releases := make(map[string]*Release, len(snap.Releases))
	for _, doc := range snap.Releases {
		rel, err := buildRelease(doc)
		if err != nil {
			return nil, errors.Wrapf(err, "release %s", doc.Name)
		}
		releases[doc.Name] = rel
	}

	order, err := chainOrder(releases)
	if err != nil {
		return nil, err
	}

	return &Chain{Releases: releases, Order: order}, nil
}

func buildRelease(doc ReleaseDoc) (*Release, error) {
	rel := &Release{
		Name:      doc.Name,
		Created:   doc.Created,
		Author:    doc.Author,
		Objects:   make(map[string]*FileObject, len(doc.Objects)),
		Tasks:     make(map[string]*Task, len(doc.Tasks)),
		Files:     graph.NewDigraph(),
		TaskHG:    graph.NewHypergraph(),
		ReleaseHG: graph.NewHypergraph(),
	}
	if doc.Previous != nil {
		rel.Previous = *doc.Previous
	}
	if doc.Next != nil {
		rel.Next = *doc.Next
	}

	for i := range doc.Objects {
		o := doc.Objects[i]
		if o.ObjectName == "" {
			return nil, errors.Wrap(ErrMalformedInput, "file object with empty object_name")
		}
		rel.Objects[o.ObjectName] = &o
		rel.Files.AddNode(o.ObjectName)
	}
	for i := range doc.Tasks {
		task := doc.Tasks[i]
		if task.ObjectName == "" {
			return nil, errors.Wrap(ErrMalformedInput, "task with empty object_name")
		}
		rel.Tasks[task.ObjectName] = &task
		rel.TaskHG.AddEdge(task.ObjectName)
		for _, obj := range task.Objects {
			rel.TaskHG.Link(obj, task.ObjectName)
		}
	}
	for _, e := range doc.FileEdges {
		rel.Files.AddEdge(e[0], e[1])
	}
	for _, l := range doc.TaskLinks {
		rel.TaskHG.Link(l[0], l[1])
	}
	for _, l := range doc.ReleaseLinks {
		rel.ReleaseHG.AddEdge(doc.Name)
		rel.ReleaseHG.Link(l[0], l[1])
	}

	return rel, nil
}

// chainOrder validates the previous/next links form a single acyclic
// chain covering every release and returns the release names head-first.
func chainOrder(releases map[string]*Release) ([]string, error) {
	if len(releases) == 0 {
		return nil, errors.Wrap(ErrMalformedInput, "no releases")
	}

	var head string
	headCount, tailCount := 0, 0
	for name, rel := range releases {
		if rel.Previous == "" {
			head = name
			headCount++
		}
		if rel.Next == "" {
			tailCount++
		}
		if rel.Previous != "" {
			if _, ok := releases[rel.Previous]; !ok {
				return nil, errors.Wrapf(ErrMalformedInput, "release %s: dangling previous link %s", name, rel.Previous)
			}
		}
		if rel.Next != "" {
			if _, ok := releases[rel.Next]; !ok {
				return nil, errors.Wrapf(ErrMalformedInput, "release %s: dangling next link %s", name, rel.Next)
			}
		}
	}
	if headCount != 1 {
		return nil, errors.Wrapf(ErrMalformedInput, "expected exactly one release with no previous, found %d", headCount)
	}
	if tailCount != 1 {
		return nil, errors.Wrapf(ErrMalformedInput, "expected exactly one release with no next, found %d", tailCount)
	}

	order := make([]string, 0, len(releases))
	seen := make(map[string]bool, len(releases))
	for name := head; name != ""; {
		if seen[name] {
			return nil, errors.Wrap(ErrMalformedInput, "release chain contains a cycle")
		}
		seen[name] = true
		order = append(order, name)
		name = releases[name].Next
	}
	if len(seen) != len(releases) {
		return nil, errors.Wrap(ErrMalformedInput, "release chain does not cover every release")
	}
	return order, nil
}
