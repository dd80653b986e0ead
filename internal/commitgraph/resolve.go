package commitgraph

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/aolsson/ccm2git/internal/graph"
	"github.com/aolsson/ccm2git/internal/model"
)

// ErrUnresolvableCycle is returned when the cut-enumeration loop runs out
// of candidate cuts for a commits-graph cycle.
var ErrUnresolvableCycle = errors.New("unresolvable cycle")

// PrepareFileHistory makes the file-history DAG acyclic and transitively
// reduced, mutating files in place. While a cycle exists, the newest file
// in it (by integrate time, then version, then identity) is assumed to
// have no legitimate successors within the cycle and has its offending
// outgoing edges removed.
func PrepareFileHistory(files *graph.Digraph, objects map[string]*model.FileObject) {
	for {
		cycle := graph.FindCycle(files)
		if cycle == nil {
			break
		}
		newest := newestInCycle(cycle, objects)
		inCycle := toSet(cycle)
		for _, succ := range files.Neighbors(newest) {
			if inCycle[succ] {
				files.DelEdge(newest, succ)
			}
		}
	}
	for _, e := range graph.TransitiveEdges(files) {
		files.DelEdge(e[0], e[1])
	}
}

func newestInCycle(cycle []string, objects map[string]*model.FileObject) string {
	best := cycle[0]
	for _, id := range cycle[1:] {
		if lessObject(objects[best], objects[id], best, id) {
			best = id
		}
	}
	return best
}

// lessObject reports whether candidate a ranks below candidate b, by
// integrate time, then version, then identity.
func lessObject(a, b *model.FileObject, aID, bID string) bool {
	if a == nil || b == nil {
		return aID < bID
	}
	if !a.IntegrateTime.Equal(b.IntegrateTime) {
		return a.IntegrateTime.Before(b.IntegrateTime)
	}
	if a.Version != b.Version {
		return a.Version < b.Version
	}
	return aID < bID
}

// Resolve builds the commits graph for one release window and, if it
// contains cycles, splits tasks via file-level cuts until it is acyclic.
// files must already have been passed through PrepareFileHistory; tasks
// is the sanitized task hypergraph and is mutated in place by splitting.
func Resolve(files *graph.Digraph, tasks *graph.Hypergraph, releases *graph.Hypergraph, log *logrus.Logger) (*graph.Digraph, error) {
	commits := Build(files, tasks, releases)

	for {
		cycle := graph.FindCycle(commits)
		if cycle == nil {
			return commits, nil
		}
		if log != nil {
			log.WithField("cycle", cycle).Debug("commits graph cycle detected")
		}

		reduced := reducedGraph(files, tasks, cycle)
		sccs := graph.SCCComponents(reduced)
		if len(sccs) == 0 {
			return nil, errors.Wrapf(ErrUnresolvableCycle, "cycle %v has no file-level witness", cycle)
		}
		witness := sccs[0]
		candidates := enumerateCuts(tasks, witness)

		cycleSet := toSet(cycle)
		resolved := false
		for _, cut := range candidates {
			task := tasks.Links(cut[0])[0]
			newTask := freshTaskName(tasks, task)
			tasks.AddEdge(newTask)
			for _, f := range cut {
				tasks.Unlink(f, task)
				tasks.Link(f, newTask)
			}

			next := Build(files, tasks, releases)
			nextCycle := graph.FindCycle(next)
			if nextCycle != nil && isSubset(cycleSet, toSet(nextCycle)) {
				tasks.DelEdge(newTask)
				for _, f := range cut {
					tasks.Link(f, task)
				}
				continue
			}

			if log != nil {
				log.WithFields(logrus.Fields{"task": task, "split_into": newTask, "cut": cut}).Info("split task to break cycle")
			}
			commits = next
			resolved = true
			break
		}

		if !resolved {
			return nil, errors.Wrapf(ErrUnresolvableCycle, "cycle %v: no candidate cut removed it", cycle)
		}
	}
}

func freshTaskName(tasks *graph.Hypergraph, task string) string {
	for k := 1; ; k++ {
		name := fmt.Sprintf("%s_%d", task, k)
		if !tasks.HasEdge(name) {
			return name
		}
	}
}

func isSubset(a, b map[string]bool) bool {
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}
