// Package texts holds every user-facing message of the bot.
package texts

const divider = "━━━━━━━━━━━━━━━━━━━━━━━━━━━"

// Welcome greets users who passed the membership gate. Markdown.
const Welcome = `🌟 *Welcome to the KYC UDP Activator Bot!* 🌟

🎭 This is a fun prank tool that "activates" KYC on your phone number.

✨ *Quick Commands:*
/activatekyc - Start the KYC activation
/howtouse - Detailed instructions
/leaderboard - Top activations
/contactus - Contact support

⚠️ *Note:* This is just for fun! No real KYC is performed.
` + divider

// GateRequired asks the user to join the required channels. Markdown.
const GateRequired = "🔒 *Access Restricted* 🔒\n\n" +
	"To use this bot, you must join our official channels:\n\n" +
	"👉 Tap each button below to join\n" +
	"👉 Then click 'I've Joined' to verify\n" +
	divider

// Verification results.
const (
	VerifiedAlert  = "✅ Verification successful! You can now use the bot."
	NotJoinedAlert = "❌ You haven't joined all channels yet!"
	Verified       = "✅ *Verification Complete!*\n\n" +
		"You've successfully joined all required channels.\n" +
		"Use /start to begin!"
)

// ActivationPrompt asks for the phone number. Markdown.
const ActivationPrompt = "📱 *KYC Activation Started*\n\n" +
	"Please send your phone number with country code:\n" +
	"Example: `+256751722034`\n\n" +
	"🔒 We don't store or use your real number"

// ActivationTextOnly is sent when a non-text message arrives while a phone number is expected.
const ActivationTextOnly = "📱 Please send your phone number as a text message."

// ActivationStarting opens the progress animation. Markdown.
const ActivationStarting = "🔄 *Starting KYC Activation...*"

// ProgressFrames are shown in order during activation.
var ProgressFrames = []string{
	"🟩⬜⬜⬜⬜ [13%] Scanning device...",
	"🟩🟩⬜⬜⬜ [27%] Checking network...",
	"🟩🟩🟩⬜⬜ [41%] Verifying identity...",
	"🟩🟩🟩🟩⬜ [63%] Connecting to server...",
	"🟩🟩🟩🟩🟩 [100%] Activation complete!",
}

// SignalFrames follow ProgressFrames.
var SignalFrames = []string{
	"📡 [▫▫▫▫▫] Searching for signal...",
	"📡 [■▫▫▫▫] Connecting to tower...",
	"📡 [■■▫▫▫] Establishing link...",
	"📡 [■■■▫▫] Authenticating...",
	"📡 [■■■■▫] Finalizing...",
	"📡 [■■■■■] ✅ Signal locked!",
}

// KYCResponses are the final confirmations. {phone} is replaced by the escaped submission. Markdown.
var KYCResponses = []string{
	"✨ *KYC Activated Successfully!* ✨\n\n📱 Phone: {phone}\n🔒 Status: VIP Verified\n🎉 Enjoy unlimited access!",
	"🚀 *KYC Upgrade Complete!*\n\n📱 Phone: {phone}\n💎 Tier: Diamond Level\n🔥 Premium features unlocked!",
	"✅ *Verification Successful!*\n\n📱 Phone: {phone}\n🛡️ Protection: Enabled\n🌐 Full access granted!",
	"💳 *KYC Activated!*\n\n📱 Phone: {phone}\n⭐ Status: Trusted User\n🔓 Restrictions removed!",
}

// Frames returns the full animation: progress frames then signal frames.
func Frames() []string {
	out := make([]string, 0, len(ProgressFrames)+len(SignalFrames))
	out = append(out, ProgressFrames...)
	return append(out, SignalFrames...)
}

// HowToUse explains the bot. Markdown.
const HowToUse = `📘 *KYC Activator Bot Guide* 📘
` + divider + `

1️⃣ *Getting Started*
- Use /start to begin
- Join required channels if prompted

2️⃣ *Activation Process*
- Use /activatekyc
- Enter your phone number
- Watch the magic happen!

3️⃣ *Features*
- Fun KYC activation simulation
- Leaderboard tracking
- Regular updates

4️⃣ *Important Notes*
- This is just for entertainment
- No real KYC is performed
- No personal data is stored

🎉 Enjoy the experience!
` + divider

// Admin and broadcast notices. Markdown.
const (
	AccessDenied     = "⛔ *Access Denied*\nAdmin privileges required."
	LeaderboardReset = "♻️ *Leaderboard Reset*\n\n" +
		"All activation records have been cleared.\n" +
		"New activations will start fresh!"
	LeaderboardEmpty = "🏆 *Leaderboard is empty!*\nBe the first with /activatekyc"

	BroadcastArmed = "📢 *Broadcast Mode Enabled*\n\n" +
		"Please send the message you want to broadcast to all users.\n" +
		"Text, photos and documents are supported. Use /cancel to abort."
	BroadcastAlreadyArmed = "📢 Broadcast mode is already enabled.\nSend your message or use /cancel."
	BroadcastCancelled    = "🚫 Broadcast cancelled."
	NothingToCancel       = "ℹ️ Nothing to cancel."
	BroadcastUnsupported  = "⚠️ Only text, photos and documents can be broadcast. Broadcast mode is off."
	BroadcastStarted      = "📤 Broadcasting to %d users..."
)

// Generic notices. Plain text.
const (
	GenericError    = "⚠️ Something went wrong. Please try again later."
	UnknownMessage  = "🤔 I didn't get that. Use /start to see what I can do."
	UnknownCallback = "Unsupported action"
	RateLimited     = "⏳ Slow down a little."
)

// Button labels.
const (
	BtnActivate    = "✨ Activate KYC"
	BtnLeaderboard = "📊 Leaderboard"
	BtnHowTo       = "ℹ️ How To Use"
	BtnJoined      = "✅ I've Joined"
	BtnJoin        = "Join %s"
	BtnAdmin       = "📩 Message Admin"
	BtnNews        = "📢 Announcements"
	BtnSupport     = "💬 Support Channel"
)
