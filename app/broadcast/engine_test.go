package broadcast

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/m3rciful/kycbot/app/transport/transporttest"

	tele "gopkg.in/telebot.v4"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRunTalliesPartialFailure(t *testing.T) {
	bot := transporttest.NewBot()
	bot.FailSend[2] = tele.ErrBlockedByUser

	res := NewEngine(bot, Options{}).Run(context.Background(), Payload{Kind: KindText, Text: "hello"}, []int64{1, 2, 3})

	assert.Equal(t, 2, res.Success)
	assert.Equal(t, 1, res.Failure)
	assert.Equal(t, 3, res.Total())
	assert.NotEmpty(t, res.RunID)

	sent := bot.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, "1", sent[0].To)
	assert.Equal(t, "3", sent[1].To)
	assert.Equal(t, "hello", sent[0].Text())
	assert.Equal(t, tele.ModeMarkdown, sent[0].ParseMode())
}

func TestRunRecoversFromSenderPanic(t *testing.T) {
	bot := transporttest.NewBot()
	bot.PanicSend[1] = true

	res := NewEngine(bot, Options{Workers: 2}).Run(context.Background(), Payload{Kind: KindText, Text: "x"}, []int64{1, 2, 3, 4})

	assert.Equal(t, 3, res.Success)
	assert.Equal(t, 1, res.Failure)
}

func TestRunKeepsStoreOrderWithOneWorker(t *testing.T) {
	bot := transporttest.NewBot()
	ids := []int64{5, 3, 9, 1, 7}

	res := NewEngine(bot, Options{Workers: 1}).Run(context.Background(), Payload{Kind: KindText, Text: "x"}, ids)
	require.Equal(t, len(ids), res.Success)

	var got []string
	for _, s := range bot.Sent() {
		got = append(got, s.To)
	}
	want := make([]string, 0, len(ids))
	for _, id := range ids {
		want = append(want, strconv.FormatInt(id, 10))
	}
	assert.Equal(t, want, got)
}

func TestRunEnforcesMinimumDelay(t *testing.T) {
	bot := transporttest.NewBot()
	start := time.Now()
	res := NewEngine(bot, Options{Delay: 20 * time.Millisecond, Workers: 3}).
		Run(context.Background(), Payload{Kind: KindText, Text: "x"}, []int64{1, 2, 3, 4})

	assert.Equal(t, 4, res.Success)
	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
}

func TestRunIgnoresCancellation(t *testing.T) {
	bot := transporttest.NewBot()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := NewEngine(bot, Options{Delay: time.Millisecond}).Run(ctx, Payload{Kind: KindText, Text: "x"}, []int64{1, 2, 3})
	assert.Equal(t, 3, res.Success)
}

func TestRunEmptyRecipients(t *testing.T) {
	res := NewEngine(transporttest.NewBot(), Options{}).Run(context.Background(), Payload{Kind: KindText, Text: "x"}, nil)
	assert.Zero(t, res.Total())
}

func TestRunMediaPayloads(t *testing.T) {
	bot := transporttest.NewBot()
	engine := NewEngine(bot, Options{})

	engine.Run(context.Background(), Payload{Kind: KindPhoto, FileID: "photo-id", Caption: "look"}, []int64{1})
	engine.Run(context.Background(), Payload{Kind: KindDocument, FileID: "doc-id", Caption: "read"}, []int64{1})

	sent := bot.Sent()
	require.Len(t, sent, 2)
	photo, ok := sent[0].What.(*tele.Photo)
	require.True(t, ok)
	assert.Equal(t, "photo-id", photo.FileID)
	assert.Equal(t, "look", photo.Caption)
	doc, ok := sent[1].What.(*tele.Document)
	require.True(t, ok)
	assert.Equal(t, "doc-id", doc.FileID)
}

func TestPayloadFromMessage(t *testing.T) {
	cases := []struct {
		name string
		msg  *tele.Message
		want Payload
		ok   bool
	}{
		{"text", &tele.Message{Text: "hi"}, Payload{Kind: KindText, Text: "hi"}, true},
		{"photo", &tele.Message{Photo: &tele.Photo{File: tele.File{FileID: "p"}}, Caption: "c"}, Payload{Kind: KindPhoto, FileID: "p", Caption: "c"}, true},
		{"document", &tele.Message{Document: &tele.Document{File: tele.File{FileID: "d"}}}, Payload{Kind: KindDocument, FileID: "d"}, true},
		{"sticker", &tele.Message{Sticker: &tele.Sticker{}}, Payload{}, false},
		{"nil", nil, Payload{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := PayloadFromMessage(tc.msg)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFailureKindsAreCounted(t *testing.T) {
	bot := transporttest.NewBot()
	bot.FailSend[1] = errors.New("telegram: Internal Server Error (500)")
	bot.FailSend[2] = context.DeadlineExceeded

	res := NewEngine(bot, Options{}).Run(context.Background(), Payload{Kind: KindText, Text: "x"}, []int64{1, 2})
	assert.Equal(t, 0, res.Success)
	assert.Equal(t, 2, res.Failure)
}
