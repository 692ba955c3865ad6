package activity

// BaseURL is prefixed to the relative permalinks Reddit returns.
const BaseURL = "https://www.reddit.com"

// Set holds the activity collected for one user in a single run.
// Both lists are newest-first and bounded by the fetch limit.
type Set struct {
	Username string
	Posts    []Post
	Comments []Comment
}

// Empty reports whether no posts and no comments were collected.
func (s *Set) Empty() bool {
	return s == nil || (len(s.Posts) == 0 && len(s.Comments) == 0)
}

// Len returns the total number of collected items.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Posts) + len(s.Comments)
}

// Post is a submission authored by the user.
type Post struct {
	Title     string
	Body      string
	Subreddit string
	URL       string
}

// Comment is a comment authored by the user.
type Comment struct {
	Body      string
	Subreddit string
	URL       string
}
