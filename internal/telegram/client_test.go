package telegram_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"sawmill.app/ledger/internal/telegram"
)

const testToken = "123456:ABCDEFGHIJ"

type recordedCall struct {
	Path   string
	Params map[string]string
}

// readParams flattens a Bot API request body, multipart or JSON, into field values.
func readParams(r *http.Request) map[string]string {
	params := map[string]string{}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			for k, v := range r.MultipartForm.Value {
				params[k] = v[0]
			}
		}
		return params
	}
	raw, _ := io.ReadAll(r.Body)
	var body map[string]any
	if json.Unmarshal(raw, &body) != nil {
		return params
	}
	for k, v := range body {
		if s, ok := v.(string); ok {
			params[k] = s
			continue
		}
		encoded, _ := json.Marshal(v)
		params[k] = string(encoded)
	}
	return params
}

var _ = Describe("Client", func() {
	var (
		ctx     context.Context
		server  *httptest.Server
		calls   []recordedCall
		respond func(w http.ResponseWriter, path string)
		client  *telegram.Client
	)

	BeforeEach(func() {
		ctx = context.Background()
		calls = nil
		respond = func(w http.ResponseWriter, path string) {
			_, _ = io.WriteString(w, `{"ok":true,"result":{"message_id":99,"date":1718170000,"chat":{"id":42,"type":"group"}}}`)
		}
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls = append(calls, recordedCall{Path: r.URL.Path, Params: readParams(r)})
			w.Header().Set("Content-Type", "application/json")
			respond(w, r.URL.Path)
		}))

		var err error
		client, err = telegram.NewClient(telegram.Config{Token: testToken, APIURL: server.URL + "/"})
		Expect(err).NotTo(HaveOccurred())
		Expect(client.Enabled()).To(BeTrue())
	})

	AfterEach(func() {
		server.Close()
	})

	Describe("SendMessage", func() {
		It("posts the message with link previews disabled", func() {
			sent, err := client.SendMessage(ctx, 42, "batch #7 recorded", 5)

			Expect(err).NotTo(HaveOccurred())
			Expect(sent.ID).To(Equal(99))
			Expect(sent.Chat.ID).To(Equal(int64(42)))
			Expect(calls).To(HaveLen(1))
			Expect(calls[0].Path).To(Equal("/bot" + testToken + "/sendMessage"))
			Expect(calls[0].Params).To(HaveKeyWithValue("chat_id", "42"))
			Expect(calls[0].Params).To(HaveKeyWithValue("text", "batch #7 recorded"))
			Expect(calls[0].Params).To(HaveKeyWithValue("link_preview_options", ContainSubstring(`"is_disabled":true`)))
			Expect(calls[0].Params).To(HaveKeyWithValue("reply_parameters", ContainSubstring(`"message_id":5`)))
		})

		It("omits the reply when replyTo is zero", func() {
			_, err := client.SendMessage(ctx, 42, "hi", 0)

			Expect(err).NotTo(HaveOccurred())
			Expect(calls[0].Params).NotTo(HaveKey("reply_parameters"))
		})

		It("truncates long text to the Bot API limit in characters", func() {
			long := strings.Repeat("ज", telegram.MaxMessageLength+50)

			_, err := client.SendMessage(ctx, 42, long, 0)

			Expect(err).NotTo(HaveOccurred())
			Expect(utf8.RuneCountInString(calls[0].Params["text"])).To(Equal(telegram.MaxMessageLength))
		})

		It("surfaces ok=false answers", func() {
			respond = func(w http.ResponseWriter, _ string) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = io.WriteString(w, `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`)
			}

			_, err := client.SendMessage(ctx, 1, "hi", 0)

			Expect(errors.Is(err, bot.ErrorBadRequest)).To(BeTrue())
			Expect(err).To(MatchError(ContainSubstring("chat not found")))
		})

		It("fails on non-JSON bodies", func() {
			respond = func(w http.ResponseWriter, _ string) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = io.WriteString(w, "upstream down")
			}

			_, err := client.SendMessage(ctx, 1, "hi", 0)

			Expect(err).To(MatchError(ContainSubstring("sendMessage")))
		})

		It("keeps the token out of transport errors", func() {
			server.Close()

			_, err := client.SendMessage(ctx, 1, "hi", 0)

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).NotTo(ContainSubstring(testToken))
		})

		It("honors the configured timeout", func() {
			respond = func(w http.ResponseWriter, _ string) {
				time.Sleep(200 * time.Millisecond)
				_, _ = io.WriteString(w, `{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":1}}}`)
			}
			slow, err := telegram.NewClient(telegram.Config{Token: testToken, APIURL: server.URL, Timeout: 20 * time.Millisecond})
			Expect(err).NotTo(HaveOccurred())

			_, err = slow.SendMessage(ctx, 1, "hi", 0)

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("SetWebhook", func() {
		It("registers the url, secret and update kinds", func() {
			respond = func(w http.ResponseWriter, _ string) {
				_, _ = io.WriteString(w, `{"ok":true,"result":true,"description":"Webhook was set"}`)
			}

			err := client.SetWebhook(ctx, "https://mill.example/tg/webhook", "s3cret")

			Expect(err).NotTo(HaveOccurred())
			Expect(calls[0].Path).To(HaveSuffix("/setWebhook"))
			Expect(calls[0].Params).To(HaveKeyWithValue("url", "https://mill.example/tg/webhook"))
			Expect(calls[0].Params).To(HaveKeyWithValue("secret_token", "s3cret"))
			Expect(calls[0].Params).To(HaveKeyWithValue("allowed_updates", ContainSubstring("edited_message")))
		})

		It("fails when Telegram rejects the url", func() {
			respond = func(w http.ResponseWriter, _ string) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = io.WriteString(w, `{"ok":false,"error_code":400,"description":"Bad Request: bad webhook: HTTPS url must be provided for webhook"}`)
			}

			err := client.SetWebhook(ctx, "http://mill.example/tg/webhook", "")

			Expect(err).To(MatchError(ContainSubstring("HTTPS url must be provided")))
		})
	})

	Describe("GetMe", func() {
		It("decodes the bot identity", func() {
			respond = func(w http.ResponseWriter, _ string) {
				_, _ = io.WriteString(w, `{"ok":true,"result":{"id":123456,"is_bot":true,"first_name":"Mill","username":"mill_bot"}}`)
			}

			me, err := client.GetMe(ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(calls[0].Path).To(HaveSuffix("/getMe"))
			Expect(me.Username).To(Equal("mill_bot"))
			Expect(me.IsBot).To(BeTrue())
		})
	})

	Describe("without a token", func() {
		It("refuses every call", func() {
			empty, err := telegram.NewClient(telegram.Config{Token: "  ", APIURL: server.URL})
			Expect(err).NotTo(HaveOccurred())

			_, sendErr := empty.SendMessage(ctx, 1, "hi", 0)
			_, meErr := empty.GetMe(ctx)
			hookErr := empty.SetWebhook(ctx, "https://mill.example/tg/webhook", "")

			Expect(empty.Enabled()).To(BeFalse())
			Expect(empty.MaskedToken()).To(Equal("<empty>"))
			for _, err := range []error{sendErr, meErr, hookErr} {
				Expect(err).To(MatchError(telegram.ErrNoToken))
			}
			Expect(calls).To(BeEmpty())
		})
	})

	It("masks its token", func() {
		Expect(client.MaskedToken()).To(Equal("123456:****GHIJ"))
	})
})

var _ = Describe("MaskToken", func() {
	DescribeTable("masks all but the bot id and the last four characters",
		func(token, want string) {
			Expect(telegram.MaskToken(token)).To(Equal(want))
		},
		Entry("bot token", "123456:ABCDEFGHIJ", "123456:****GHIJ"),
		Entry("no colon", "ABCDEFGHIJ", "****GHIJ"),
		Entry("short", "abc", "***"),
		Entry("empty", "", "<empty>"),
	)
})

var _ = Describe("Update", func() {
	It("prefers message over edited_message", func() {
		var u telegram.Update
		Expect(json.Unmarshal([]byte(`{
			"update_id": 10,
			"edited_message": {"message_id": 2, "date": 1718170000, "chat": {"id": 5, "type": "group"}, "text": "edited"}
		}`), &u)).To(Succeed())

		Expect(u.ID).To(Equal(int64(10)))
		msg := u.EffectiveMessage()
		Expect(msg).NotTo(BeNil())
		Expect(msg.ID).To(Equal(2))
		Expect(msg.Text).To(Equal("edited"))
		Expect(telegram.Username(msg)).To(BeEmpty())

		u.Message = &models.Message{ID: 3, Text: "new", From: &models.User{Username: "ravi"}}
		Expect(u.EffectiveMessage().Text).To(Equal("new"))
		Expect(telegram.Username(u.EffectiveMessage())).To(Equal("ravi"))
	})

	It("has no message for other update kinds", func() {
		var u telegram.Update
		Expect(json.Unmarshal([]byte(`{"update_id": 11, "callback_query": {"id": "q", "from": {"id": 1, "is_bot": false, "first_name": "R"}, "chat_instance": "c"}}`), &u)).To(Succeed())
		Expect(u.EffectiveMessage()).To(BeNil())
	})
})
