package domain

import "fmt"

const WelcomeMessage = `👋 Welcome!

📱 Send me a TikTok or Instagram video link and I'll download it without watermarks.

🔗 Supported platforms:
• TikTok
• Instagram (public videos)

💡 Just paste the link and I'll handle the rest!`

const HelpMessage = `📖 How to use:

1️⃣ Copy a TikTok or Instagram video link
2️⃣ Send it to me
3️⃣ I'll download and send the video back

⚠️ Notes:
• Videos must be under 50MB
• Instagram videos must be public
• Quality: Up to 1080p

❓ Need help? Contact the developer`

const (
	UnknownCommandMessage = "🤔 Unknown command. Send /help to see what I can do."
	InvalidLinkMessage    = "❌ Please send a valid TikTok or Instagram video link."
	ProcessingMessage     = "⏳ Processing your video... This may take a moment."
	DeliveryFailedMessage = "❌ Downloaded the video but could not deliver it. Please try again later."
)

// FailureMessage maps an extraction failure to the text shown to the user.
func FailureMessage(reason FailureReason) string {
	switch reason {
	case ReasonInvalidLink:
		return "❌ That link doesn't point to a video I can download."
	case ReasonPrivateOrUnavailable:
		return "❌ This video is private or unavailable. I can only download public videos."
	case ReasonOverSize:
		return "❌ Video is too large to send (over 50MB), even at the lowest quality."
	default:
		return "❌ An error occurred while processing the video. Please try again later."
	}
}

// VideoCaption is attached to every delivered video.
func VideoCaption(platform Platform, botUsername string) string {
	if botUsername == "" {
		return fmt.Sprintf("✅ Downloaded from %s", platform)
	}
	return fmt.Sprintf("✅ Downloaded from %s\n🤖 @%s", platform, botUsername)
}
