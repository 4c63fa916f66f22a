package alias

import "fmt"

// BuiltinVersion identifies the revision of the built-in alias set. Bump it
// whenever a definition below changes.
const BuiltinVersion = 1

// Builtins are the aliases every jj installation defines by default.
var Builtins = []struct {
	Declaration string
	Body        string
}{
	{"trunk()", `latest(
  remote_bookmarks(exact:"main", exact:"origin") |
  remote_bookmarks(exact:"master", exact:"origin") |
  remote_bookmarks(exact:"trunk", exact:"origin") |
  remote_bookmarks(exact:"main", exact:"upstream") |
  remote_bookmarks(exact:"master", exact:"upstream") |
  remote_bookmarks(exact:"trunk", exact:"upstream") |
  root()
)`},
	{"builtin_immutable_heads()", "present(trunk()) | tags() | untracked_remote_bookmarks()"},
	{"immutable_heads()", "builtin_immutable_heads()"},
	{"immutable()", "::(immutable_heads() | root())"},
	{"mutable()", "~immutable()"},
	{"visible()", "::visible_heads()"},
	{"hidden()", "~visible()"},
}

// DefaultCollapsed lists the built-in calls shown by name instead of by
// expansion unless collapsing is disabled.
var DefaultCollapsed = []string{"trunk()", "builtin_immutable_heads()"}

// NewBuiltinTable returns a table holding only the built-in aliases.
func NewBuiltinTable() *Table {
	t := NewTable()
	for _, b := range Builtins {
		if err := t.define(b.Declaration, b.Body, true); err != nil {
			panic(fmt.Sprintf("invalid builtin alias %s: %v", b.Declaration, err))
		}
	}
	return t
}
