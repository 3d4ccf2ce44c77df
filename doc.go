// Package edn implements a reader and writer for edn, the extensible data
// notation (https://github.com/edn-format/edn).
//
// edn is a textual data-interchange format: nested collections, symbolic
// identifiers, arbitrary-precision numbers, and user-extensible tagged
// values. The package parses edn text into an abstract value model,
// prints values back out as canonical edn, and converts between the value
// model and native Go values through pluggable handler tables.
//
// # Data Model
//
// Scalars: nil, bool, integer, float, exact decimal, character, string
// Identifiers: symbol, keyword (optionally namespaced with a / prefix)
// Collections: list, vector, map, set
// Special: tagged value (#tag payload)
//
// Integers are arbitrary precision. Exact decimals (the M suffix) are kept
// distinct from binary floats and never converted implicitly.
//
// # Syntax
//
//	Nil:      nil
//	Bool:     true / false
//	Integer:  42, -7, 10000N
//	Float:    3.14, -1.2e3
//	Decimal:  4.7M, 32M
//	Char:     \c, \newline, \tab, \return, \space
//	String:   "hello\nworld"
//	Symbol:   foo, my/symbol, +, /
//	Keyword:  :foo, :my/keyword
//	List:     (1 2 3)
//	Vector:   [1 2 3]
//	Map:      {:a 1, :b 2}
//	Set:      #{1 2 3}
//	Tagged:   #inst "1985-04-12T23:20:50Z"
//	Discard:  #_form
//	Comment:  ; to end of line
//
// Commas are whitespace.
//
// # Reading and Writing
//
// Parse reads a single form; StreamReader lazily reads a sequence of
// top-level forms from an io.Reader. Print renders a value as canonical
// text; PrintStream writes one form per line.
//
// # Native Conversion
//
// Decode turns a parsed value into native Go values (slices, maps, sets,
// scalars), consulting a reader table for tagged elements. Encode is the
// inverse, consulting an ordered writer list of (predicate, tag, transform)
// rules. Built-in handlers cover #inst (time.Time) and #uuid (uuid.UUID);
// they are ordinary table entries and callers may override them. Unknown
// tags never fail: they decode to a generic Tagged carrier unless a default
// handler is supplied.
//
// Handler tables are plain parameters merged per call. Nothing in this
// package holds mutable shared state, so Parse, Print, Encode and Decode
// are safe for concurrent use.
package edn
