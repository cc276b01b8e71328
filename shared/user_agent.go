package shared

import (
	"fmt"
	"net/http"
	"os"
	"strings"
)

const (
	versionFileName   = "version.txt"
	userAgentTemplate = "Org-Social-Relay/%s (+https://%s)"
)

//go:generate mockgen --build_flags=--mod=mod -destination ../test/mocks/mock_user_agent.go -package mocks org_relay/shared IUserAgent

type IUserAgent interface {
	AddUserAgent(req *http.Request)
}

type userAgent struct {
	userAgentValue string
}

func NewUserAgent(cfg *Config) IUserAgent {
	return &userAgent{
		userAgentValue: buildUserAgentString(cfg.Host),
	}
}

func buildUserAgentString(host string) string {
	versionBytes, _ := os.ReadFile(versionFileName)
	versionStr := strings.TrimSpace(string(versionBytes))
	versionStr = strings.TrimPrefix(versionStr, "v")
	if versionStr == "" {
		versionStr = "dev"
	}
	return fmt.Sprintf(userAgentTemplate, versionStr, host)
}

func (ua *userAgent) AddUserAgent(req *http.Request) {
	req.Header.Set("User-Agent", ua.userAgentValue)
}
