package test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

const docAlice = `#+TITLE: Alice's journal
#+NICK: alice
#+FOLLOW: bob {{bob}}

* Posts
**
:PROPERTIES:
:ID: 2025-01-15T09:30:00Z
:TAGS: emacs
:END:

Hello world from alice.
**
:PROPERTIES:
:ID: 2025-01-16T10:00:00Z
:POLL_END: 2099-01-20T10:00:00Z
:END:

Which editor?
- [ ] Emacs
- [ ] Vim
`

const docBob = `#+TITLE: Bob
#+NICK: bob

* Posts
**
:PROPERTIES:
:ID: 2025-01-15T11:00:00Z
:REPLY_TO: {{alice}}#2025-01-15T09:30:00Z
:END:

Hi [[org-social:{{alice}}][alice]], welcome!
**
:PROPERTIES:
:ID: 2025-01-15T12:00:00Z
:REPLY_TO: {{alice}}#2025-01-15T09:30:00Z
:MOOD: 👍
:END:
`

const docBobExtra = `**
:PROPERTIES:
:ID: 2025-01-16T12:00:00Z
:REPLY_TO: {{alice}}#2025-01-16T10:00:00Z
:POLL_OPTION: Emacs
:END:
`

// feedSite serves social.org documents and honors ETag validators like a static host would.
type feedSite struct {
	server *httptest.Server
	mu     sync.Mutex
	docs   map[string]string
	hits   map[string]int
	status map[string]int
}

func newFeedSite() *feedSite {
	fs := &feedSite{
		docs:   make(map[string]string),
		hits:   make(map[string]int),
		status: make(map[string]int),
	}
	fs.server = httptest.NewServer(http.HandlerFunc(fs.serve))
	return fs
}

func (fs *feedSite) close() {
	fs.server.Close()
}

func (fs *feedSite) url(path string) string {
	return fs.server.URL + path
}

// fill replaces {{name}} placeholders with the site URL of /name/social.org.
func (fs *feedSite) fill(doc string) string {
	for _, name := range []string{"alice", "bob", "carol"} {
		doc = strings.ReplaceAll(doc, "{{"+name+"}}", fs.url("/"+name+"/social.org"))
	}
	return doc
}

func (fs *feedSite) setDoc(path, doc string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.docs[path] = fs.fill(doc)
}

func (fs *feedSite) setStatus(path string, status int) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.status[path] = status
}

func (fs *feedSite) hitCount(path string) int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.hits[path]
}

func (fs *feedSite) serve(w http.ResponseWriter, r *http.Request) {
	fs.mu.Lock()
	fs.hits[r.URL.Path]++
	doc, found := fs.docs[r.URL.Path]
	status := fs.status[r.URL.Path]
	fs.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		return
	}
	if !found {
		http.NotFound(w, r)
		return
	}
	etag := fmt.Sprintf(`"%x"`, len(doc))
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(doc))
}
