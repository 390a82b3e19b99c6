package domain

type Platform int

const (
	PlatformUnrecognized Platform = iota
	PlatformTikTok
	PlatformInstagram
)

func (p Platform) String() string {
	switch p {
	case PlatformTikTok:
		return "TikTok"
	case PlatformInstagram:
		return "Instagram"
	default:
		return "Unrecognized"
	}
}

// ClassifiedLink is the classifier's verdict on one inbound message.
// URL is preserved exactly as the user sent it.
type ClassifiedLink struct {
	Platform Platform
	URL      string
}
