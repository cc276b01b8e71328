package dal

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
	"org_relay/shared"
	"strings"
	"sync"
	"time"
)

const schemaVer = 1

//go:embed scripts/*
var scripts embed.FS

var ErrUnknownFeed = errors.New("feed is not registered")

//go:generate mockgen --build_flags=--mod=mod -destination ../test/mocks/mock_repo.go -package mocks org_relay/dal IRepo

type IRepo interface {
	InitUpdateDb()
	AddFeedIfNotExist(feedUrl string, source FeedSource, when time.Time) (isNew bool, err error)
	GetFeed(feedUrl string) (*Feed, error)
	GetFeeds() ([]*Feed, error)
	GetFeedCount() (int, error)
	GetStaleFeeds(cutoff time.Time) ([]*Feed, error)
	RemoveFeeds(feedUrls []string) (int, error)
	RecordFetchSuccess(feedUrl string, state *FetchState) error
	RecordFetchFailure(feedUrl string, when time.Time, errMsg string) error
	StoreFeedContent(feedUrl string, profile *Profile, posts []*Post) (newPosts int, err error)
	GetProfiles() ([]*Profile, error)
	GetAllPosts() ([]*Post, error)
	GetPostCount() (int, error)
}

type Repo struct {
	logger shared.ILogger
	db     *sqlx.DB
	driver string
	muDb   sync.RWMutex
}

func NewRepo(cfg *shared.Config, logger shared.ILogger) IRepo {
	repo, err := OpenRepo(cfg.DbDriver, cfg.DbDsn, logger)
	if err != nil {
		logger.Errorf("Failed to open/create DB with driver %s: %v", cfg.DbDriver, err)
		panic(err)
	}
	return repo
}

// OpenRepo connects to the database behind one of the supported drivers.
func OpenRepo(driver, dsn string, logger shared.ILogger) (*Repo, error) {

	switch driver {
	case shared.DriverSqlite3:
		// https://phiresky.github.io/blog/2020/sqlite-performance-tuning/
		// _synchronous=1 is "normal"
		if !strings.HasPrefix(dsn, "file:") && dsn != ":memory:" {
			dsn = fmt.Sprintf("file:%s?cache=shared&mode=rwc&_journal_mode=WAL&_synchronous=1&_busy_timeout=5000", dsn)
		}
	case shared.DriverSqlite:
		if !strings.HasPrefix(dsn, "file:") && dsn != ":memory:" {
			dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(1)&_pragma=busy_timeout(5000)", dsn)
		}
	case shared.DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver != shared.DriverPostgres {
		// One writer; an in-memory DB also lives and dies with its only connection
		db.SetMaxOpenConns(1)
	}
	return &Repo{logger: logger, db: db, driver: driver}, nil
}

func (repo *Repo) Close() error {
	return repo.db.Close()
}

func (repo *Repo) InitUpdateDb() {

	dbVer := 0
	var err error

	row := repo.db.QueryRow("SELECT val FROM sys_params WHERE name='schema_ver'")
	if err = row.Scan(&dbVer); err != nil {
		dbVer = 0
		repo.logger.Printf("Database appears to be empty; current schema version is %d", schemaVer)
	} else {
		repo.logger.Printf("Database is at version %d; current schema version is %d", dbVer, schemaVer)
	}
	for i := dbVer; i < schemaVer; i += 1 {
		nextVer := i + 1
		fn := fmt.Sprintf("scripts/create-%02d.sql", nextVer)
		repo.logger.Printf("Running %s", fn)
		var sqlBytes []byte
		if sqlBytes, err = scripts.ReadFile(fn); err != nil {
			repo.logger.Errorf("Failed to read init script %s: %v", fn, err)
			panic(err)
		}
		for _, stmt := range splitStatements(string(sqlBytes)) {
			if _, err = repo.db.Exec(stmt); err != nil {
				repo.logger.Errorf("Failed to execute init script %s: %v", fn, err)
				panic(err)
			}
		}
		_, err = repo.db.Exec(repo.db.Rebind("UPDATE sys_params SET val=? WHERE name='schema_ver'"), nextVer)
		if err != nil {
			repo.logger.Errorf("Failed to update schema_ver to %d: %v", nextVer, err)
			panic(err)
		}
	}
}

func splitStatements(script string) []string {
	var res []string
	for _, stmt := range strings.Split(script, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt != "" {
			res = append(res, stmt)
		}
	}
	return res
}

func (repo *Repo) AddFeedIfNotExist(feedUrl string, source FeedSource, when time.Time) (isNew bool, err error) {

	repo.muDb.Lock()
	defer repo.muDb.Unlock()

	var res sql.Result
	res, err = repo.db.Exec(repo.db.Rebind(`INSERT INTO feeds (url, source, created_at)
		VALUES (?, ?, ?) ON CONFLICT (url) DO NOTHING`),
		feedUrl, string(source), when.UTC())
	if err != nil {
		return
	}
	var affected int64
	if affected, err = res.RowsAffected(); err != nil {
		return
	}
	isNew = affected > 0
	return
}

const selectFeedCols = `SELECT url, source, created_at, last_fetch_at, last_success_at, last_error,
	failure_count, etag, last_modified, content_hash FROM feeds`

func (repo *Repo) GetFeed(feedUrl string) (*Feed, error) {

	repo.muDb.RLock()
	defer repo.muDb.RUnlock()

	var feed Feed
	err := repo.db.Get(&feed, repo.db.Rebind(selectFeedCols+" WHERE url=?"), feedUrl)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &feed, nil
}

func (repo *Repo) GetFeeds() ([]*Feed, error) {

	repo.muDb.RLock()
	defer repo.muDb.RUnlock()

	var feeds []*Feed
	if err := repo.db.Select(&feeds, selectFeedCols+" ORDER BY url"); err != nil {
		return nil, err
	}
	return feeds, nil
}

func (repo *Repo) GetFeedCount() (int, error) {

	repo.muDb.RLock()
	defer repo.muDb.RUnlock()

	var count int
	err := repo.db.Get(&count, "SELECT COUNT(*) FROM feeds")
	return count, err
}

// GetStaleFeeds returns feeds whose last success (or registration, if they never
// succeeded) is older than cutoff.
func (repo *Repo) GetStaleFeeds(cutoff time.Time) ([]*Feed, error) {

	repo.muDb.RLock()
	defer repo.muDb.RUnlock()

	var feeds []*Feed
	err := repo.db.Select(&feeds, repo.db.Rebind(selectFeedCols+`
		WHERE (last_success_at IS NOT NULL AND last_success_at < ?)
		   OR (last_success_at IS NULL AND created_at < ?)
		ORDER BY url`), cutoff.UTC(), cutoff.UTC())
	if err != nil {
		return nil, err
	}
	return feeds, nil
}

// RemoveFeeds deletes the feeds together with their profiles and posts.
func (repo *Repo) RemoveFeeds(feedUrls []string) (count int, err error) {

	if len(feedUrls) == 0 {
		return 0, nil
	}

	repo.muDb.Lock()
	defer repo.muDb.Unlock()

	var tx *sqlx.Tx
	if tx, err = repo.db.Beginx(); err != nil {
		return
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, url := range feedUrls {
		if err = deleteFeedContent(tx, url); err != nil {
			return
		}
		var res sql.Result
		if res, err = tx.Exec(tx.Rebind("DELETE FROM feeds WHERE url=?"), url); err != nil {
			return
		}
		var affected int64
		if affected, err = res.RowsAffected(); err != nil {
			return
		}
		count += int(affected)
	}
	err = tx.Commit()
	return
}

func deleteFeedContent(tx *sqlx.Tx, feedUrl string) error {
	if _, err := tx.Exec(tx.Rebind("DELETE FROM posts WHERE feed_url=?"), feedUrl); err != nil {
		return err
	}
	return deleteProfile(tx, feedUrl)
}

func deleteProfile(tx *sqlx.Tx, feedUrl string) error {
	for _, table := range []string{"profiles", "profile_links", "profile_contacts", "follows"} {
		if _, err := tx.Exec(tx.Rebind("DELETE FROM "+table+" WHERE feed_url=?"), feedUrl); err != nil {
			return err
		}
	}
	return nil
}

func (repo *Repo) RecordFetchSuccess(feedUrl string, state *FetchState) error {

	repo.muDb.Lock()
	defer repo.muDb.Unlock()

	when := state.When.UTC()
	_, err := repo.db.Exec(repo.db.Rebind(`UPDATE feeds SET last_fetch_at=?, last_success_at=?, last_error='',
		failure_count=0, etag=?, last_modified=?, content_hash=? WHERE url=?`),
		when, when, state.ETag, state.LastModified, state.ContentHash, feedUrl)
	return err
}

func (repo *Repo) RecordFetchFailure(feedUrl string, when time.Time, errMsg string) error {

	repo.muDb.Lock()
	defer repo.muDb.Unlock()

	_, err := repo.db.Exec(repo.db.Rebind(`UPDATE feeds SET last_fetch_at=?, last_error=?,
		failure_count=failure_count+1 WHERE url=?`),
		when.UTC(), errMsg, feedUrl)
	return err
}

type postRow struct {
	FeedUrl     string     `db:"feed_url"`
	PostId      string     `db:"post_id"`
	PostedAt    time.Time  `db:"posted_at"`
	Kind        int        `db:"kind"`
	Content     string     `db:"content"`
	Lang        string     `db:"lang"`
	Tags        string     `db:"tags"`
	Client      string     `db:"client"`
	ReplyTo     string     `db:"reply_to"`
	Mood        string     `db:"mood"`
	PollOption  string     `db:"poll_option"`
	PollEnd     *time.Time `db:"poll_end"`
	PollOptions string     `db:"poll_options"`
	IncludeRef  string     `db:"include_ref"`
	Grp         string     `db:"grp"`
}

func toPostRow(post *Post) *postRow {
	row := postRow{
		FeedUrl:     post.FeedUrl,
		PostId:      post.PostId,
		PostedAt:    post.Timestamp.UTC(),
		Kind:        int(post.Kind),
		Content:     post.Content,
		Lang:        post.Lang,
		Tags:        strings.Join(post.Tags, " "),
		Client:      post.Client,
		ReplyTo:     post.ReplyTo,
		Mood:        post.Mood,
		PollOption:  post.PollOption,
		PollOptions: strings.Join(post.PollOptions, "\n"),
		IncludeRef:  post.Include,
		Grp:         post.Group,
	}
	if post.PollEnd != nil {
		pollEnd := post.PollEnd.UTC()
		row.PollEnd = &pollEnd
	}
	return &row
}

func (row *postRow) toPost() *Post {
	post := Post{
		FeedUrl:     row.FeedUrl,
		PostId:      row.PostId,
		Timestamp:   row.PostedAt.UTC(),
		Kind:        PostKind(row.Kind),
		Content:     row.Content,
		Lang:        row.Lang,
		Tags:        strings.Fields(row.Tags),
		Client:      row.Client,
		ReplyTo:     row.ReplyTo,
		Mood:        row.Mood,
		PollOption:  row.PollOption,
		PollOptions: splitLines(row.PollOptions),
		Include:     row.IncludeRef,
		Group:       row.Grp,
	}
	if row.PollEnd != nil {
		pollEnd := row.PollEnd.UTC()
		post.PollEnd = &pollEnd
	}
	return &post
}

func splitLines(str string) []string {
	if str == "" {
		return nil
	}
	return strings.Split(str, "\n")
}

// StoreFeedContent replaces the feed's profile and merges its posts. Posts already
// stored but missing from the new document are kept.
func (repo *Repo) StoreFeedContent(feedUrl string, profile *Profile, posts []*Post) (newPosts int, err error) {

	repo.muDb.Lock()
	defer repo.muDb.Unlock()

	var tx *sqlx.Tx
	if tx, err = repo.db.Beginx(); err != nil {
		return
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// The feed may have been pruned while we were fetching it
	var feedCount int
	if err = tx.Get(&feedCount, tx.Rebind("SELECT COUNT(*) FROM feeds WHERE url=?"), feedUrl); err != nil {
		return
	}
	if feedCount == 0 {
		err = ErrUnknownFeed
		return
	}

	if profile != nil {
		if err = replaceProfile(tx, feedUrl, profile); err != nil {
			return
		}
	}

	var existingIds []string
	if err = tx.Select(&existingIds, tx.Rebind("SELECT post_id FROM posts WHERE feed_url=?"), feedUrl); err != nil {
		return
	}
	existing := make(map[string]bool, len(existingIds))
	for _, id := range existingIds {
		existing[id] = true
	}

	upsert := tx.Rebind(`INSERT INTO posts (feed_url, post_id, posted_at, kind, content, lang, tags, client,
			reply_to, mood, poll_option, poll_end, poll_options, include_ref, grp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (feed_url, post_id) DO UPDATE SET
			posted_at=excluded.posted_at, kind=excluded.kind, content=excluded.content, lang=excluded.lang,
			tags=excluded.tags, client=excluded.client, reply_to=excluded.reply_to, mood=excluded.mood,
			poll_option=excluded.poll_option, poll_end=excluded.poll_end, poll_options=excluded.poll_options,
			include_ref=excluded.include_ref, grp=excluded.grp`)
	for _, post := range posts {
		row := toPostRow(post)
		row.FeedUrl = feedUrl
		_, err = tx.Exec(upsert, row.FeedUrl, row.PostId, row.PostedAt, row.Kind, row.Content, row.Lang,
			row.Tags, row.Client, row.ReplyTo, row.Mood, row.PollOption, row.PollEnd, row.PollOptions,
			row.IncludeRef, row.Grp)
		if err != nil {
			return
		}
		if !existing[row.PostId] {
			existing[row.PostId] = true
			newPosts += 1
		}
	}

	err = tx.Commit()
	return
}

func replaceProfile(tx *sqlx.Tx, feedUrl string, prof *Profile) error {

	if err := deleteProfile(tx, feedUrl); err != nil {
		return err
	}
	_, err := tx.Exec(tx.Rebind(`INSERT INTO profiles (feed_url, title, nick, description, avatar, version, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`),
		feedUrl, prof.Title, prof.Nick, prof.Description, prof.Avatar, prof.Version, prof.UpdatedAt.UTC())
	if err != nil {
		return err
	}
	for i, link := range prof.Links {
		_, err = tx.Exec(tx.Rebind("INSERT INTO profile_links (feed_url, ord, url) VALUES (?, ?, ?)"),
			feedUrl, i, link)
		if err != nil {
			return err
		}
	}
	for i, contact := range prof.Contacts {
		_, err = tx.Exec(tx.Rebind("INSERT INTO profile_contacts (feed_url, ord, contact) VALUES (?, ?, ?)"),
			feedUrl, i, contact)
		if err != nil {
			return err
		}
	}
	for i, follow := range prof.Follows {
		_, err = tx.Exec(tx.Rebind("INSERT INTO follows (feed_url, ord, followed_url, nickname) VALUES (?, ?, ?, ?)"),
			feedUrl, i, follow.Url, follow.Nickname)
		if err != nil {
			return err
		}
	}
	return nil
}

type profileRow struct {
	FeedUrl     string    `db:"feed_url"`
	Title       string    `db:"title"`
	Nick        string    `db:"nick"`
	Description string    `db:"description"`
	Avatar      string    `db:"avatar"`
	Version     string    `db:"version"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type listRow struct {
	FeedUrl  string `db:"feed_url"`
	Value    string `db:"value"`
	Nickname string `db:"nickname"`
}

func (repo *Repo) GetProfiles() ([]*Profile, error) {

	repo.muDb.RLock()
	defer repo.muDb.RUnlock()

	var rows []profileRow
	if err := repo.db.Select(&rows, `SELECT feed_url, title, nick, description, avatar, version, updated_at
		FROM profiles ORDER BY feed_url`); err != nil {
		return nil, err
	}
	res := make([]*Profile, 0, len(rows))
	byFeed := make(map[string]*Profile, len(rows))
	for _, row := range rows {
		prof := &Profile{
			FeedUrl:     row.FeedUrl,
			Title:       row.Title,
			Nick:        row.Nick,
			Description: row.Description,
			Avatar:      row.Avatar,
			Version:     row.Version,
			UpdatedAt:   row.UpdatedAt.UTC(),
		}
		res = append(res, prof)
		byFeed[row.FeedUrl] = prof
	}

	var links []listRow
	if err := repo.db.Select(&links, `SELECT feed_url, url AS value, '' AS nickname
		FROM profile_links ORDER BY feed_url, ord`); err != nil {
		return nil, err
	}
	for _, link := range links {
		if prof, ok := byFeed[link.FeedUrl]; ok {
			prof.Links = append(prof.Links, link.Value)
		}
	}

	var contacts []listRow
	if err := repo.db.Select(&contacts, `SELECT feed_url, contact AS value, '' AS nickname
		FROM profile_contacts ORDER BY feed_url, ord`); err != nil {
		return nil, err
	}
	for _, contact := range contacts {
		if prof, ok := byFeed[contact.FeedUrl]; ok {
			prof.Contacts = append(prof.Contacts, contact.Value)
		}
	}

	var follows []listRow
	if err := repo.db.Select(&follows, `SELECT feed_url, followed_url AS value, nickname
		FROM follows ORDER BY feed_url, ord`); err != nil {
		return nil, err
	}
	for _, follow := range follows {
		if prof, ok := byFeed[follow.FeedUrl]; ok {
			prof.Follows = append(prof.Follows, Follow{Url: follow.Value, Nickname: follow.Nickname})
		}
	}

	return res, nil
}

func (repo *Repo) GetAllPosts() ([]*Post, error) {

	repo.muDb.RLock()
	defer repo.muDb.RUnlock()

	var rows []postRow
	if err := repo.db.Select(&rows, `SELECT feed_url, post_id, posted_at, kind, content, lang, tags, client,
			reply_to, mood, poll_option, poll_end, poll_options, include_ref, grp
		FROM posts ORDER BY feed_url, post_id`); err != nil {
		return nil, err
	}
	res := make([]*Post, len(rows))
	for i := range rows {
		res[i] = rows[i].toPost()
	}
	return res, nil
}

func (repo *Repo) GetPostCount() (int, error) {

	repo.muDb.RLock()
	defer repo.muDb.RUnlock()

	var count int
	err := repo.db.Get(&count, "SELECT COUNT(*) FROM posts")
	return count, err
}
