// Package rules provides the line-oriented rule mechanism of presubmit.
//
// A Rule is a typed record: an id, a file predicate, a matcher over a single
// line (with a bounded backward window of elided lines) and a message
// template. Rules are collected into an ordered RuleSet and evaluated by a
// Scanner, which walks a file once and yields findings lazily.
//
// # Elided lines
//
// Matchers normally look at the elided form of a line, where comments are
// removed and literal contents are collapsed (see package elide). This keeps
// textual rules from firing inside strings and comments. Rules that are about
// the physical text, such as line length or tabs, use the raw line instead.
//
// # Message templates
//
// Messages may reference named capture groups as ${name}. The whole
// match with surrounding whitespace trimmed is ${match}:
//
//	Move constructor of ${classname} not declared 'noexcept' in ${match}
//
// # Filters
//
// Rules can be switched off and on by id prefix with cpplint style filters:
//
//	-build/c++11,-whitespace/braces,+whitespace/braces/strict
//
// The last filter matching a rule id wins.
package rules
