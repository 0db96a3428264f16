// Package storage implements owned heap ("native") string storage.
//
// A Native holds a null-terminated byte buffer whose capacity is whatever the
// Go allocator rounds the request up to. Storage is shared between string
// values by copying a pointer; content below the storage's high-water count
// is never rewritten.
//
// Go copies values without running any hook, so storage cannot count its
// referents. A value instead owns the unused tail when its own count equals
// the storage's high-water count. AppendInPlace claims the tail with a
// single compare-and-swap immediately before writing, so two copies of the
// same value can never both extend the buffer. The loser of a claim
// reallocates.
//
// Breadcrumbs sample the UTF-16 offset of the buffer every BreadcrumbStride
// code units. They are built lazily, published with compare-and-swap, and
// discarded when the tail is extended.
package storage
