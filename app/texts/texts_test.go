package texts

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m3rciful/kycbot/app/models"
)

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "+25675***", MaskPhone("+256751722034"))
	assert.Equal(t, "123***", MaskPhone("123"))
	assert.Equal(t, "N/A", MaskPhone(""))
}

func TestKYCResponseEscapesPhone(t *testing.T) {
	out := KYCResponse(KYCResponses[0], "+1_*2")
	assert.Contains(t, out, `📱 Phone: +1\_\*2`)
	assert.NotContains(t, out, "{phone}")
}

func TestEveryResponseHasPhonePlaceholder(t *testing.T) {
	for _, r := range KYCResponses {
		assert.Contains(t, r, "{phone}")
	}
}

func TestFramesOrder(t *testing.T) {
	frames := Frames()
	assert.Len(t, frames, len(ProgressFrames)+len(SignalFrames))
	assert.Equal(t, ProgressFrames[0], frames[0])
	assert.Equal(t, SignalFrames[len(SignalFrames)-1], frames[len(frames)-1])
}

func TestLeaderboardEscapesAndMasks(t *testing.T) {
	out := Leaderboard([]models.LeaderboardEntry{
		{Username: "a_very_long_name", Phone: "+256751722034"},
		{Phone: "+1"},
	}, 2)

	assert.True(t, strings.HasPrefix(out, "🏆 *KYC Activation Leaderboard* 🏆"))
	assert.Contains(t, out, `a\_very\_lon`)
	assert.Contains(t, out, `\+25675\*\*\*`)
	assert.Contains(t, out, "Anonymous")
	assert.Contains(t, out, `Rank \| User`)
	assert.Contains(t, out, "Total Activations: 2")
	assert.NotContains(t, out, "256751722034")
}

func TestStatsAndResults(t *testing.T) {
	assert.Contains(t, Stats(5, 1, 3, 2), "Total: 5")
	res := BroadcastResults(2, 1, 1500*time.Millisecond)
	assert.Contains(t, res, "✅ Success: 2")
	assert.Contains(t, res, "❌ Failures: 1")
	assert.Contains(t, res, "📩 Total Sent: 3")
}

func TestContactSkipsEmptyFields(t *testing.T) {
	out := Contact("", "9AM - 5PM")
	assert.NotContains(t, out, "Email")
	assert.Contains(t, out, "9AM - 5PM")
}
