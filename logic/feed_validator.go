package logic

import (
	"bytes"
	"context"
	"errors"
	"github.com/PuerkitoBio/goquery"
	"net/url"
	"org_relay/parser"
	"org_relay/shared"
	"strings"
)

//go:generate mockgen --build_flags=--mod=mod -destination ../test/mocks/mock_feed_validator.go -package mocks org_relay/logic IFeedValidator

var (
	ErrNotHttpUrl   = errors.New("not an absolute http(s) URL")
	ErrNoOrgSocial  = errors.New("no social.org document found")
	ErrNotOrgSocial = errors.New("document has neither a Posts section nor header metadata")
)

type IFeedValidator interface {
	// Validate checks that candidate points to an Org Social document. If candidate is an HTML page
	// that links to a social.org file, the linked URL is returned instead.
	Validate(ctx context.Context, candidate string) (feedUrl string, err error)
}

type feedValidator struct {
	logger  shared.ILogger
	fetcher IFetcher
}

func NewFeedValidator(logger shared.ILogger, fetcher IFetcher) IFeedValidator {
	return &feedValidator{logger, fetcher}
}

func (fv *feedValidator) Validate(ctx context.Context, candidate string) (feedUrl string, err error) {

	feedUrl = ""
	err = nil

	if !shared.IsHttpUrl(candidate) {
		err = ErrNotHttpUrl
		return
	}

	var res *FetchResult
	if res, err = fv.fetcher.Fetch(ctx, &FetchRequest{Url: candidate}); err != nil {
		return
	}

	if looksLikeHtml(res) {
		var linked string
		if linked, err = getOrgSocialUrl(candidate, res.Body); err != nil {
			return
		}
		fv.logger.Debugf("Page %s links to feed %s", candidate, linked)
		candidate = linked
		if res, err = fv.fetcher.Fetch(ctx, &FetchRequest{Url: candidate}); err != nil {
			return
		}
	}

	doc, _ := parser.Parse(candidate, string(res.Body))
	if !doc.HasPosts && doc.Profile.Title == "" && doc.Profile.Nick == "" {
		err = ErrNotOrgSocial
		return
	}
	feedUrl = candidate
	return
}

func looksLikeHtml(res *FetchResult) bool {
	if strings.Contains(strings.ToLower(res.ContentType), "text/html") {
		return true
	}
	head := bytes.TrimSpace(res.Body)
	if len(head) > 64 {
		head = head[:64]
	}
	return bytes.HasPrefix(bytes.ToLower(head), []byte("<!doctype html")) ||
		bytes.HasPrefix(bytes.ToLower(head), []byte("<html"))
}

// getOrgSocialUrl looks for an alternate link of type text/org, then any link to a social.org file.
func getOrgSocialUrl(pageUrlStr string, body []byte) (string, error) {

	pageUrl, err := url.Parse(pageUrlStr)
	if err != nil {
		return "", err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	var hrefStr string
	doc.Find("link[rel='alternate']").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		aType, _ := s.Attr("type")
		aHref, ok := s.Attr("href")
		if ok && (aType == "text/org" || strings.HasSuffix(aHref, "social.org")) {
			hrefStr = aHref
			return false
		}
		return true
	})
	if hrefStr == "" {
		doc.Find("a[href$='social.org']").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			hrefStr = s.AttrOr("href", "")
			return hrefStr == ""
		})
	}
	if hrefStr == "" {
		return "", ErrNoOrgSocial
	}

	// Make it absolute
	feedUrl, err := url.Parse(strings.TrimSpace(hrefStr))
	if err != nil {
		return "", err
	}
	if !feedUrl.IsAbs() {
		feedUrl = pageUrl.ResolveReference(feedUrl)
	}
	feedUrl.Fragment = ""
	return feedUrl.String(), nil
}
