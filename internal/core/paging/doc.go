// Package paging turns ranked, filtered queries into resumable connections
//
// A request flows through a Generator (args to page descriptor), an Applier
// (descriptor onto a squirrel SelectBuilder), one fetch, and back through the
// Generator (trim the lookahead row, derive cursors and page info)
//
// Cursors are opaque to callers; the token shape is an implementation detail
package paging
