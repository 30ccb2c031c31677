// Package gate checks that a user belongs to every required channel.
package gate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/m3rciful/kycbot/app/transport"
	"github.com/m3rciful/kycbot/core/logger"

	tele "gopkg.in/telebot.v4"
)

// Reasons reported in Decision.Reason.
const (
	ReasonOK          = "ok"
	ReasonNotMember   = "not_member"
	ReasonLookupError = "lookup_error"
)

// Channel is a required channel and the link users follow to join it.
type Channel struct {
	Name string
	Link string
}

// Decision is the outcome of one gate evaluation.
type Decision struct {
	Allowed bool
	// Channel is the first channel that failed, empty when Allowed.
	Channel string
	Reason  string
}

// Gate evaluates membership on every call. Nothing is cached.
type Gate struct {
	lookup   transport.MemberLookup
	channels []Channel
}

// New creates a gate over channels, checked in order.
func New(lookup transport.MemberLookup, channels []Channel) *Gate {
	return &Gate{lookup: lookup, channels: append([]Channel(nil), channels...)}
}

// FromConfig pairs channel names with their join links.
func FromConfig(names, links []string) []Channel {
	out := make([]Channel, 0, len(names))
	for i, n := range names {
		ch := Channel{Name: n}
		if i < len(links) {
			ch.Link = links[i]
		}
		out = append(out, ch)
	}
	return out
}

// Channels returns the required channels.
func (g *Gate) Channels() []Channel {
	return append([]Channel(nil), g.channels...)
}

// Check looks userID up in every channel and stops at the first failure.
// Lookup errors count as "not a member".
func (g *Gate) Check(ctx context.Context, userID int64) Decision {
	user := tele.ChatID(userID)
	for _, ch := range g.channels {
		member, err := g.lookup.ChatMemberOf(transport.Channel(ch.Name), user)
		if err != nil {
			return g.deny(ctx, userID, ch.Name, ReasonLookupError,
				slog.String("err", logger.SanitizeLimit(err.Error(), 256)))
		}
		if !allowedStatus(member) {
			return g.deny(ctx, userID, ch.Name, ReasonNotMember,
				slog.String("member_status", string(member.Role)))
		}
	}
	return Decision{Allowed: true, Reason: ReasonOK}
}

// IsMember reports whether userID passes the gate.
func (g *Gate) IsMember(ctx context.Context, userID int64) bool {
	return g.Check(ctx, userID).Allowed
}

func (g *Gate) deny(ctx context.Context, userID int64, channel, reason string, extra slog.Attr) Decision {
	logger.Info(ctx, "gate", "gate.denied",
		slog.String("status", "denied"),
		slog.Int64("user_id", userID),
		slog.String("channel", channel),
		slog.String("reason", reason),
		extra,
	)
	return Decision{Channel: channel, Reason: reason}
}

func allowedStatus(m *tele.ChatMember) bool {
	if m == nil {
		return false
	}
	switch m.Role {
	case tele.Member, tele.Administrator, tele.Creator:
		return true
	}
	return false
}

// String implements fmt.Stringer for logs.
func (d Decision) String() string {
	if d.Allowed {
		return ReasonOK
	}
	return fmt.Sprintf("%s:%s", d.Reason, d.Channel)
}
