package texts

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m3rciful/kycbot/app/models"
	"github.com/m3rciful/kycbot/core/telegram/format"
)

const (
	nameWidth     = 10
	phoneVisible  = 6
	anonymousName = "Anonymous"
)

// KYCResponse fills a confirmation template with the submitted phone.
func KYCResponse(template, phone string) string {
	return strings.ReplaceAll(template, "{phone}", format.MD(phone))
}

// MaskPhone keeps the first six characters of phone and hides the rest.
func MaskPhone(phone string) string {
	if phone == "" {
		return "N/A"
	}
	return truncate(phone, phoneVisible) + "***"
}

// Leaderboard renders entries as a MarkdownV2 table. Usernames and phones are escaped.
func Leaderboard(entries []models.LeaderboardEntry, total int) string {
	var b strings.Builder
	b.WriteString("🏆 *KYC Activation Leaderboard* 🏆\n\n")
	b.WriteString(format.MDV2("Rank | User       | Phone\n"))
	b.WriteString(format.MDV2("-----|------------|-------\n"))
	for i, e := range entries {
		name := e.Username
		if name == "" {
			name = anonymousName
		}
		line := fmt.Sprintf("%-4d | %-*s | %s\n", i+1, nameWidth, truncate(name, nameWidth), MaskPhone(e.Phone))
		b.WriteString(format.MDV2(line))
	}
	b.WriteString(format.MDV2(fmt.Sprintf("\nTotal Activations: %d", total)))
	return b.String()
}

// Stats renders the admin dashboard. Markdown.
func Stats(users, usersToday, activations, activationsToday int) string {
	return fmt.Sprintf(`📈 *Bot Statistics Dashboard* 📈
%s
👥 *Users:*
├─ Total: %d
└─ Joined Today: %d

✅ *Activations:*
├─ Total: %d
└─ Today: %d
%s`, divider, users, usersToday, activations, activationsToday, divider)
}

// BroadcastResults reports a finished broadcast. Markdown.
func BroadcastResults(success, failure int, took time.Duration) string {
	return fmt.Sprintf("📊 *Broadcast Results*\n\n"+
		"✅ Success: %d\n"+
		"❌ Failures: %d\n"+
		"📩 Total Sent: %d\n"+
		"⏱ Duration: %s\n"+
		"%s", success, failure, success+failure, took.Round(time.Second), divider)
}

// Contact renders the contact card. Empty fields are left out. Markdown.
func Contact(email, hours string) string {
	var b strings.Builder
	b.WriteString("📞 *Contact Information* 📞\n\n")
	if email != "" {
		b.WriteString("🔹 *Email:* " + format.MD(email) + "\n")
	}
	if hours != "" {
		b.WriteString("🔹 *Business Hours:* " + format.MD(hours) + "\n")
	}
	b.WriteString("\n📌 *For:*\n- Business inquiries\n- Bug reports\n- Feature requests\n\n🚫 *Please don't spam!*\n")
	b.WriteString(divider)
	return b.String()
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
