package storage

import "strings"

// column is a selected column; a non-empty def wraps it in COALESCE so that
// nullable counters and flags read back as their zero value.
type column struct {
	name string
	def  string
}

var (
	userColumns = []column{
		{"id", ""}, {"email", ""}, {"first_name", ""}, {"last_name", ""},
		{"profile_image_url", ""}, {"role", ""}, {"banned", "false"},
		{"created_at", ""}, {"updated_at", ""},
	}
	forumColumns = []column{
		{"id", ""}, {"name", ""}, {"description", ""}, {"icon", ""}, {"color", ""},
		{"slug", ""}, {"post_count", "0"}, {"view_count", "0"}, {"order", "0"},
		{"requires_role", "'member'"}, {"created_at", ""}, {"updated_at", ""},
	}
	postColumns = []column{
		{"id", ""}, {"title", ""}, {"content", ""}, {"author_id", ""}, {"forum_id", ""},
		{"view_count", "0"}, {"reply_count", "0"}, {"pinned", "false"}, {"locked", "false"},
		{"created_at", ""}, {"updated_at", ""},
	}
	replyColumns = []column{
		{"id", ""}, {"content", ""}, {"author_id", ""}, {"post_id", ""},
		{"parent_reply_id", ""}, {"created_at", ""}, {"updated_at", ""},
	}
	attachmentColumns = []column{
		{"id", ""}, {"post_id", ""}, {"file_name", ""}, {"file_url", ""},
		{"file_type", ""}, {"file_size", ""}, {"created_at", ""},
	}
)

// selectList renders cs qualified by the table alias tbl. With a prefix the
// result columns are named "prefix.col", which sqlx maps onto the nested
// struct tagged db:"prefix".
func selectList(tbl, prefix string, cs []column) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		expr := tbl + `."` + c.name + `"`
		if c.def != "" {
			expr = "COALESCE(" + expr + ", " + c.def + ")"
		}
		name := c.name
		if prefix != "" {
			name = prefix + "." + c.name
		}
		parts[i] = expr + ` AS "` + name + `"`
	}
	return strings.Join(parts, ", ")
}

// postDetailsFrom selects a post with its author and forum. The joins are
// inner joins: a post whose author or forum row is gone is not returned.
var postDetailsFrom = "SELECT " +
	selectList("p", "", postColumns) + ", " +
	selectList("u", "author", userColumns) + ", " +
	selectList("f", "forum", forumColumns) +
	" FROM posts p" +
	" JOIN users u ON u.id = p.author_id" +
	" JOIN forums f ON f.id = p.forum_id"
