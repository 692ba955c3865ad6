package activity

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/drpaneas/redpersona/internal/config"
	"github.com/schollz/progressbar/v3"
	"github.com/vartanbeno/go-reddit/v2/reddit"
)

// maxPageSize is the largest listing page Reddit serves.
const maxPageSize = 100

// lister is the part of the Reddit user service the Fetcher needs.
type lister interface {
	PostsOf(ctx context.Context, username string, opts *reddit.ListUserOverviewOptions) ([]*reddit.Post, *reddit.Response, error)
	CommentsOf(ctx context.Context, username string, opts *reddit.ListUserOverviewOptions) ([]*reddit.Comment, *reddit.Response, error)
}

// Fetcher collects a Reddit user's recent posts and comments.
type Fetcher struct {
	users    lister
	limit    int
	progress io.Writer
}

// NewFetcher returns a Fetcher authenticated with cfg's Reddit credentials.
// Credentials are not checked here; bad ones surface as auth errors from
// Fetch. Progress bars are drawn to progress, which may be nil. opts are
// applied to the Reddit client after the defaults.
func NewFetcher(cfg *config.Config, progress io.Writer, opts ...reddit.Opt) (*Fetcher, error) {
	client, err := newRedditClient(cfg.Reddit, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating reddit client: %w", err)
	}
	return newFetcher(client.User, cfg.Limit, progress), nil
}

func newFetcher(users lister, limit int, progress io.Writer) *Fetcher {
	if limit < 1 {
		limit = config.DefaultLimit
	}
	if progress == nil {
		progress = io.Discard
	}
	return &Fetcher{users: users, limit: limit, progress: progress}
}

// Fetch collects up to the limit of posts, then up to the limit of comments,
// newest first. The first failure stops collection: the returned Set holds
// everything gathered before it (comments are not requested after a post
// failure) and the error is an *apierr.Error describing what went wrong.
func (f *Fetcher) Fetch(ctx context.Context, username string) (*Set, error) {
	set := &Set{Username: username}
	slog.Info("fetching reddit activity", "user", "u/"+username, "limit", f.limit)

	posts, err := f.fetchPosts(ctx, username)
	set.Posts = posts
	if err != nil {
		return set, err
	}

	comments, err := f.fetchComments(ctx, username)
	set.Comments = comments
	if err != nil {
		return set, err
	}

	slog.Debug("fetch complete", "posts", len(set.Posts), "comments", len(set.Comments))
	return set, nil
}

func (f *Fetcher) fetchPosts(ctx context.Context, username string) ([]Post, error) {
	bar := f.newBar("Posts")
	opts := f.listOptions()

	var posts []Post
	for len(posts) < f.limit {
		opts.Limit = min(f.limit-len(posts), maxPageSize)
		page, resp, err := f.users.PostsOf(ctx, username, opts)
		if err != nil {
			finishBar(bar, len(posts), err)
			return posts, classify("listing posts", err)
		}
		for _, p := range page {
			if len(posts) == f.limit {
				break
			}
			posts = append(posts, Post{
				Title:     p.Title,
				Body:      p.Body,
				Subreddit: p.SubredditName,
				URL:       permalinkURL(p.Permalink),
			})
			_ = bar.Add(1)
		}
		if !hasNextPage(page, resp) {
			break
		}
		opts.After = resp.After
	}
	finishBar(bar, len(posts), nil)
	return posts, nil
}

func (f *Fetcher) fetchComments(ctx context.Context, username string) ([]Comment, error) {
	bar := f.newBar("Comments")
	opts := f.listOptions()

	var comments []Comment
	for len(comments) < f.limit {
		opts.Limit = min(f.limit-len(comments), maxPageSize)
		page, resp, err := f.users.CommentsOf(ctx, username, opts)
		if err != nil {
			finishBar(bar, len(comments), err)
			return comments, classify("listing comments", err)
		}
		for _, c := range page {
			if len(comments) == f.limit {
				break
			}
			comments = append(comments, Comment{
				Body:      c.Body,
				Subreddit: c.SubredditName,
				URL:       permalinkURL(c.Permalink),
			})
			_ = bar.Add(1)
		}
		if !hasNextPage(page, resp) {
			break
		}
		opts.After = resp.After
	}
	finishBar(bar, len(comments), nil)
	return comments, nil
}

func (f *Fetcher) listOptions() *reddit.ListUserOverviewOptions {
	return &reddit.ListUserOverviewOptions{Sort: "new"}
}

func (f *Fetcher) newBar(desc string) *progressbar.ProgressBar {
	return progressbar.NewOptions(f.limit,
		progressbar.OptionSetWriter(f.progress),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionShowCount(),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(f.progress) }),
	)
}

// finishBar closes bar on its own line. On success the maximum drops to the
// n items already added, which completes the bar at n/n.
func finishBar(bar *progressbar.ProgressBar, n int, err error) {
	if bar.IsFinished() {
		return
	}
	if err != nil || n == 0 {
		_ = bar.Exit()
		return
	}
	bar.ChangeMax(n)
}

func hasNextPage[T any](page []T, resp *reddit.Response) bool {
	return len(page) > 0 && resp != nil && resp.After != ""
}

// permalinkURL turns the relative permalink Reddit returns into a full URL.
func permalinkURL(permalink string) string {
	if permalink == "" || strings.HasPrefix(permalink, "http://") || strings.HasPrefix(permalink, "https://") {
		return permalink
	}
	if !strings.HasPrefix(permalink, "/") {
		permalink = "/" + permalink
	}
	return BaseURL + permalink
}
