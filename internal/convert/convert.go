// Package convert wires the pipeline's stages together: decode a
// snapshot, load it into the live graphs, resolve every release window's
// commits graph, and emit the fast-import stream.
package convert

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/aolsson/ccm2git/internal/commitgraph"
	"github.com/aolsson/ccm2git/internal/emit"
	"github.com/aolsson/ccm2git/internal/fastimport"
	"github.com/aolsson/ccm2git/internal/model"
)

// Run decodes a JSON snapshot from r, validates and loads it, resolves
// every release window's commits graph, and writes the resulting
// fast-import stream to w.
func Run(r io.Reader, w io.Writer, blobs fastimport.BlobSource, log *logrus.Logger) error {
	snap, err := model.Decode(r)
	if err != nil {
		return err
	}

	chain, err := model.Load(snap)
	if err != nil {
		return errors.Wrap(err, "loading snapshot")
	}

	if log != nil {
		log.WithField("releases", len(chain.Order)).Info("snapshot loaded")
	}

	resolved, err := resolveAll(chain, log)
	if err != nil {
		return err
	}

	if blobs == nil {
		blobs = fastimport.NopBlobSource{}
	}
	return emit.Run(chain, resolved, w, blobs, log)
}

// resolveAll runs commitgraph.PrepareRelease for every non-head release
// in chain concurrently: each window reads/writes only its own file and
// task graphs, so the fan-out is safe, and the caller joins it (a
// barrier) before any release is emitted (§5 NEW).
func resolveAll(chain *model.Chain, log *logrus.Logger) (map[string]*emit.Resolved, error) {
	names := chain.Order[1:]
	results := make([]*emit.Resolved, len(names))

	var g errgroup.Group
	for i, name := range names {
		i, name := i, name
		prev := chain.Releases[chain.Order[i]]
		rel := chain.Releases[name]
		g.Go(func() error {
			tasks, commits, err := commitgraph.PrepareRelease(prev, rel, log)
			if err != nil {
				return errors.Wrapf(err, "release %s", name)
			}
			results[i] = &emit.Resolved{Tasks: tasks, Commits: commits}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resolved := make(map[string]*emit.Resolved, len(names))
	for i, name := range names {
		resolved[name] = results[i]
	}
	return resolved, nil
}
