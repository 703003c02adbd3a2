package services

import (
	"context"

	"github.com/verdant-labs/canopy-cli/internal/core/domain"
	"github.com/verdant-labs/canopy-cli/internal/logger"
)

// Walker expands a root node into the full reachable tree and flattens
// it into the syncable set. Recursion lives here; fetching one node's
// children is delegated to the Fetcher.
type Walker struct {
	fetcher *Fetcher

	// maxDepth limits expansion: 1 walks immediate children only,
	// values below 1 expand unboundedly.
	maxDepth int
}

// NewWalker creates a walker over the given fetcher.
func NewWalker(fetcher *Fetcher, maxDepth int) *Walker {
	return &Walker{fetcher: fetcher, maxDepth: maxDepth}
}

// Expand populates root.Children recursively, parent before children,
// fetching each reachable node's children exactly once. A node id seen
// twice is dropped from the tree, so a self-referential source
// structure cannot loop the walk or contribute duplicates. Any subtree
// fetch failure aborts the expansion and surfaces as a SubtreeError for
// the caller to handle at the root boundary.
func (w *Walker) Expand(ctx context.Context, root *domain.Node) error {
	visited := map[string]bool{root.ID: true}
	return w.expand(ctx, root, 1, visited)
}

func (w *Walker) expand(ctx context.Context, node *domain.Node, depth int, visited map[string]bool) error {
	if w.maxDepth >= 1 && depth > w.maxDepth {
		return nil
	}

	children, err := w.fetcher.Children(ctx, node.ID)
	if err != nil {
		return err
	}

	// A repeated id is dropped from the tree entirely, not just left
	// unexpanded, so flattening sees each node once.
	kept := make([]*domain.Node, 0, len(children))
	for _, child := range children {
		if visited[child.ID] {
			logger.Warn("Node %s reachable twice, dropping the duplicate", child.ID)
			continue
		}
		visited[child.ID] = true
		kept = append(kept, child)

		if err := w.expand(ctx, child, depth+1, visited); err != nil {
			return err
		}
	}
	node.Children = kept

	return nil
}

// Flatten walks each expanded root depth-first, parent before children,
// and returns every syncable node. Exclusion never prunes a subtree:
// an archived or empty parent still contributes its live descendants.
func Flatten(roots []*domain.Node) []*domain.Node {
	var out []*domain.Node
	for _, root := range roots {
		out = appendSyncable(out, root)
	}
	return out
}

func appendSyncable(out []*domain.Node, node *domain.Node) []*domain.Node {
	if node.Syncable() {
		out = append(out, node)
	}
	for _, child := range node.Children {
		out = appendSyncable(out, child)
	}
	return out
}
