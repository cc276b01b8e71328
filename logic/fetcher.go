package logic

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"org_relay/shared"
)

//go:generate mockgen --build_flags=--mod=mod -destination ../test/mocks/mock_fetcher.go -package mocks org_relay/logic IFetcher

const maxDocumentBytes = 8 * 1024 * 1024

// FetchRequest carries the validators stored from the previous successful fetch.
type FetchRequest struct {
	Url          string
	ETag         string
	LastModified string
}

type FetchResult struct {
	NotModified  bool
	Body         []byte
	ContentType  string
	ETag         string
	LastModified string
}

type IFetcher interface {
	// Fetch performs a conditional GET. A 304 yields NotModified and no body.
	Fetch(ctx context.Context, freq *FetchRequest) (*FetchResult, error)
}

type fetcher struct {
	cfg       *shared.Config
	userAgent shared.IUserAgent
	client    *http.Client
}

func NewFetcher(cfg *shared.Config, userAgent shared.IUserAgent) IFetcher {
	return &fetcher{
		cfg:       cfg,
		userAgent: userAgent,
		client:    &http.Client{Timeout: cfg.FetchTimeout()},
	}
}

func (f *fetcher) Fetch(ctx context.Context, freq *FetchRequest) (*FetchResult, error) {

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, freq.Url, nil)
	if err != nil {
		return nil, err
	}
	f.userAgent.AddUserAgent(req)
	if freq.ETag != "" {
		req.Header.Set("If-None-Match", freq.ETag)
	}
	if freq.LastModified != "" {
		req.Header.Set("If-Modified-Since", freq.LastModified)
	}

	var resp *http.Response
	if resp, err = f.client.Do(req); err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	res := &FetchResult{
		ContentType:  resp.Header.Get("Content-Type"),
		ETag:         resp.Header.Get("ETag"),
		LastModified: resp.Header.Get("Last-Modified"),
	}
	if resp.StatusCode == http.StatusNotModified {
		res.NotModified = true
		return res, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request failed with status %v", resp.StatusCode)
	}
	if res.Body, err = io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes+1)); err != nil {
		return nil, err
	}
	if len(res.Body) > maxDocumentBytes {
		return nil, fmt.Errorf("document exceeds %d bytes", maxDocumentBytes)
	}
	return res, nil
}
