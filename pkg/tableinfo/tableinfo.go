package tableinfo

const (
	UsersTableName = "users"

	UserIDColumn        = "id"
	UserNameColumn      = "name"
	UserAgeColumn       = "age"
	UserMarriedColumn   = "married"
	UserCommentColumn   = "comment"
	UserCreatedAtColumn = "created_at"
)

const (
	CommentsTableName = "comments"

	CommentIDColumn        = "id"
	CommentCommenterColumn = "commenter"
	CommentBodyColumn      = "comment"
	CommentCreatedAtColumn = "created_at"
)

// Qualified returns table.column, for joins.
func Qualified(table, column string) string {
	return table + "." + column
}
