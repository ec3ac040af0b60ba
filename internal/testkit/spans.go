// Package testkit holds structural checks shared by parser and extractor tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"anchorsec/internal/ast"
	"anchorsec/internal/source"
)

// CheckSpanInvariants verifies the spans of a parsed file:
//  1. the file span lies within the content and covers every top-level item;
//  2. every item span is non-empty and belongs to sf;
//  3. items nested in inline modules and impl blocks lie inside their parent.
func CheckSpanInvariants(b *ast.Builder, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	size, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	fileSpan := b.File.Span
	if fileSpan.End > size {
		return fmt.Errorf("file span end beyond content: %d > %d", fileSpan.End, size)
	}
	if len(b.File.Items) > 0 && fileSpan.Empty() {
		return fmt.Errorf("file span is empty but the file has %d items", len(b.File.Items))
	}
	return checkItems(b, sf.ID, fileSpan, b.File.Items, "file")
}

func checkItems(b *ast.Builder, file source.FileID, parent source.Span, ids []ast.ItemID, where string) error {
	for _, id := range ids {
		item := b.Items.Get(id)
		if item == nil {
			return fmt.Errorf("%s: nil item for id=%d", where, id)
		}
		sp := item.Span
		if sp.End <= sp.Start {
			return fmt.Errorf("%s: empty span %v for item %q", where, sp, item.Name)
		}
		if sp.File != file {
			return fmt.Errorf("%s: item %q span file mismatch: got=%d want=%d", where, item.Name, sp.File, file)
		}
		if !parent.Contains(sp) {
			return fmt.Errorf("%s: item %q span %v outside parent %v", where, item.Name, sp, parent)
		}

		var children []ast.ItemID
		switch item.Kind {
		case ast.ItemMod:
			if m, ok := b.Items.Mod(id); ok {
				children = m.Items
			}
		case ast.ItemImpl:
			if im, ok := b.Items.Impl(id); ok {
				children = im.Items
			}
		}
		if len(children) > 0 {
			if err := checkItems(b, file, sp, children, fmt.Sprintf("%s/%s", where, item.Name)); err != nil {
				return err
			}
		}
	}
	return nil
}
