package parser

import (
	"fmt"
	"org_relay/dal"
	"org_relay/shared"
	"regexp"
	"strings"
	"time"
)

// Document is the parsed form of one feed file.
type Document struct {
	Profile  *dal.Profile
	Posts    []*dal.Post
	HasPosts bool // a "* Posts" section was found
}

// Warning describes a post that was skipped or partially understood.
type Warning struct {
	Line    int
	PostId  string
	Message string
}

func (w Warning) String() string {
	if w.PostId == "" {
		return fmt.Sprintf("line %d: %s", w.Line, w.Message)
	}
	return fmt.Sprintf("line %d (%s): %s", w.Line, w.PostId, w.Message)
}

var (
	reKeyword    = regexp.MustCompile(`^\s*#\+([A-Za-z_]+):\s*(.*)$`)
	reDrawerLine = regexp.MustCompile(`^:([^:\s]+):\s*(.*)$`)
	rePollOption = regexp.MustCompile(`^\s*-\s*\[\s*\]\s*(.+)$`)
)

type postLines struct {
	startLine int // 1-based line of the heading
	lines     []string
}

// Parse never fails as a whole: broken posts are dropped and reported as warnings.
func Parse(feedUrl, text string) (*Document, []Warning) {

	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")

	doc := &Document{Profile: &dal.Profile{FeedUrl: feedUrl}}
	var chunks []*postLines
	var current *postLines
	inHeader := true
	inPosts := false

	for i, line := range lines {
		level, title := headingLevel(line)
		if level == 1 {
			inHeader = false
			current = nil
			inPosts = strings.EqualFold(title, "Posts")
			if inPosts {
				doc.HasPosts = true
			}
			continue
		}
		if inHeader {
			parseKeyword(doc.Profile, line)
			continue
		}
		if !inPosts {
			continue
		}
		if level == 2 {
			current = &postLines{startLine: i + 1}
			chunks = append(chunks, current)
		}
		if current != nil {
			current.lines = append(current.lines, line)
		}
	}

	var warnings []Warning
	seen := make(map[string]bool)
	for _, chunk := range chunks {
		post, warns := parsePost(feedUrl, chunk)
		warnings = append(warnings, warns...)
		if post == nil {
			continue
		}
		if seen[post.PostId] {
			warnings = append(warnings, Warning{chunk.startLine, post.PostId, "duplicate post ID"})
			continue
		}
		seen[post.PostId] = true
		doc.Posts = append(doc.Posts, post)
	}
	return doc, warnings
}

// headingLevel returns the number of leading stars of an Org heading, or 0.
func headingLevel(line string) (int, string) {
	level := 0
	for level < len(line) && line[level] == '*' {
		level += 1
	}
	if level == 0 {
		return 0, ""
	}
	if level < len(line) && line[level] != ' ' && line[level] != '\t' {
		return 0, ""
	}
	return level, strings.TrimSpace(line[level:])
}

func parseKeyword(prof *dal.Profile, line string) {
	groups := reKeyword.FindStringSubmatch(line)
	if groups == nil {
		return
	}
	val := strings.TrimSpace(groups[2])
	if val == "" {
		return
	}
	switch strings.ToUpper(groups[1]) {
	case "TITLE":
		prof.Title = val
	case "NICK":
		prof.Nick = val
	case "DESCRIPTION":
		prof.Description = val
	case "AVATAR":
		prof.Avatar = val
	case "LINK":
		prof.Links = append(prof.Links, val)
	case "CONTACT":
		prof.Contacts = append(prof.Contacts, val)
	case "FOLLOW":
		parts := strings.Fields(val)
		if len(parts) == 1 {
			prof.Follows = append(prof.Follows, dal.Follow{Url: parts[0]})
		} else {
			prof.Follows = append(prof.Follows, dal.Follow{Url: parts[1], Nickname: parts[0]})
		}
	}
}

func parsePost(feedUrl string, chunk *postLines) (*dal.Post, []Warning) {

	_, title := headingLevel(chunk.lines[0])
	rest := chunk.lines[1:]
	lineNo := chunk.startLine + 1

	// Property drawer is the first non-blank line under the heading
	for len(rest) > 0 && strings.TrimSpace(rest[0]) == "" {
		rest = rest[1:]
		lineNo += 1
	}
	props := make(map[string]string)
	if len(rest) > 0 && strings.EqualFold(strings.TrimSpace(rest[0]), ":PROPERTIES:") {
		closed := false
		for i := 1; i < len(rest); i++ {
			ln := strings.TrimSpace(rest[i])
			if strings.EqualFold(ln, ":END:") {
				closed = true
				rest = rest[i+1:]
				break
			}
			if ln == "" {
				continue
			}
			groups := reDrawerLine.FindStringSubmatch(ln)
			if groups == nil {
				return nil, []Warning{{lineNo + i, props["ID"], "malformed property line"}}
			}
			props[strings.ToUpper(groups[1])] = strings.TrimSpace(groups[2])
		}
		if !closed {
			return nil, []Warning{{chunk.startLine, props["ID"], "unterminated property drawer"}}
		}
	}

	id := props["ID"]
	if id == "" {
		return nil, []Warning{{chunk.startLine, "", "post has no ID"}}
	}
	ts, err := shared.ParseTimestamp(id)
	if err != nil {
		return nil, []Warning{{chunk.startLine, id, "unparseable ID timestamp"}}
	}

	var warnings []Warning
	post := &dal.Post{
		FeedUrl:    feedUrl,
		PostId:     ts.Format(time.RFC3339Nano),
		Timestamp:  ts,
		Content:    buildContent(title, rest),
		Lang:       props["LANG"],
		Tags:       strings.Fields(props["TAGS"]),
		Client:     props["CLIENT"],
		ReplyTo:    normalizeRef(props["REPLY_TO"]),
		Mood:       props["MOOD"],
		PollOption: props["POLL_OPTION"],
		Include:    normalizeRef(props["INCLUDE"]),
		Group:      groupSlug(props["GROUP"]),
	}
	if pollEnd := props["POLL_END"]; pollEnd != "" {
		if end, err := shared.ParseTimestamp(pollEnd); err != nil {
			warnings = append(warnings, Warning{chunk.startLine, id, "unparseable POLL_END; not treated as poll"})
		} else {
			post.PollEnd = &end
			post.PollOptions = pollOptions(post.Content)
		}
	}
	post.Kind = dal.Classify(post)
	return post, warnings
}

func normalizeRef(val string) string {
	if val == "" {
		return ""
	}
	return shared.NormalizePostUrl(val)
}

func buildContent(title string, lines []string) string {
	body := strings.TrimSpace(strings.Join(lines, "\n"))
	if title == "" {
		return body
	}
	if body == "" {
		return title
	}
	return title + "\n" + body
}

func pollOptions(content string) []string {
	var res []string
	for _, line := range strings.Split(content, "\n") {
		if groups := rePollOption.FindStringSubmatch(line); groups != nil {
			res = append(res, strings.TrimSpace(groups[1]))
		}
	}
	return res
}

// groupSlug keeps the group name in front of an optional relay URL.
func groupSlug(val string) string {
	name, _, _ := strings.Cut(val, "http")
	return shared.SlugifyGroup(name)
}
