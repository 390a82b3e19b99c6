package link

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/eyysave/savebot/pkg/domain"
)

var urlRe = regexp.MustCompile(`https?://\S+`)

var tiktokHosts = map[string]struct{}{
	"tiktok.com":    {},
	"vm.tiktok.com": {},
	"vt.tiktok.com": {},
	"m.tiktok.com":  {},
}

var instagramHosts = map[string]struct{}{
	"instagram.com": {},
	"instagr.am":    {},
	"ig.me":         {},
}

type classifier struct{}

func NewClassifier() *classifier {
	return &classifier{}
}

// Classify scans text for the first URL and decides which supported
// platform it belongs to. It never touches the network and returns the
// matched URL exactly as it appeared in the text.
func (c *classifier) Classify(text string) domain.ClassifiedLink {
	raw := urlRe.FindString(text)
	if raw == "" {
		return domain.ClassifiedLink{Platform: domain.PlatformUnrecognized}
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return domain.ClassifiedLink{Platform: domain.PlatformUnrecognized}
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")

	switch {
	case hostMatches(host, tiktokHosts):
		return domain.ClassifiedLink{Platform: domain.PlatformTikTok, URL: raw}
	case hostMatches(host, instagramHosts):
		return domain.ClassifiedLink{Platform: domain.PlatformInstagram, URL: raw}
	default:
		return domain.ClassifiedLink{Platform: domain.PlatformUnrecognized}
	}
}

func hostMatches(host string, known map[string]struct{}) bool {
	_, ok := known[host]
	return ok
}
