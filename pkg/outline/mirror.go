package outline

import (
	"fmt"
	"os"
)

// MirrorChanges is a one-way, best-effort sync of edits from the file at
// sourcePath into destination. When destination was parsed from a file and
// has not gone stale relative to the source (its observed modification time
// is not older than the source file's), nothing happens: a manual edit on
// the destination side is never overwritten.
//
// Otherwise the source is parsed fresh and each destination node is matched
// against the first source node with identical text. Matched Project or
// Task pairs have text and attributes copied over while the destination's
// indentation and line stay as they are; the destination's direct Note
// children are replaced with the source's. Unmatched nodes and kind
// mismatches are left alone, so nothing is ever deleted from the
// destination beyond those refreshed Notes.
func MirrorChanges(sourcePath string, destination *Document) error {
	if _, ok := destination.Path(); ok {
		info, err := os.Stat(sourcePath)
		if err != nil {
			return fmt.Errorf("stat %s: %w", sourcePath, err)
		}
		if !destination.modTime.Before(info.ModTime()) {
			return nil
		}
	}

	source, err := ParseFile(sourcePath)
	if err != nil {
		return err
	}

	sourceNodes := source.Nodes()
	type pair struct{ src, dst NodeID }
	var pairs []pair
	for _, dstID := range destination.Nodes() {
		for _, srcID := range sourceNodes {
			if source.Item(srcID).Text == destination.Item(dstID).Text {
				pairs = append(pairs, pair{src: srcID, dst: dstID})
				break
			}
		}
	}

	for _, p := range pairs {
		src := source.Item(p.src)
		dst := destination.Item(p.dst)
		if src.Kind != dst.Kind || src.Kind == Note {
			continue
		}

		dst.Text = src.Text
		dst.Attrs = src.Attrs.Clone()

		// Note children are only refreshed when the source node has children
		// at all; otherwise a bare source line would wipe the destination's
		// notes.
		if len(source.at(p.src).children) == 0 {
			continue
		}

		for _, childID := range destination.Children(p.dst) {
			if destination.Item(childID).IsNote() {
				destination.UnlinkNode(childID)
			}
		}
		for _, childID := range source.at(p.src).children {
			if !source.Item(childID).IsNote() {
				continue
			}
			copied := destination.CopyNode(source, childID)
			destination.InsertNode(copied, AsLastChildOf(p.dst))
		}
	}
	return nil
}
