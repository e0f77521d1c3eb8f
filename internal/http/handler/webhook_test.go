package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"sawmill.app/ledger/internal/http/handler"
	"sawmill.app/ledger/internal/service"
)

var _ = Describe("TelegramWebhookHandler", func() {
	var (
		router *gin.Engine
		svc    *mockIntakeService
	)

	post := func(body string, headers map[string]string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/tg/webhook", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	const update = `{
		"update_id": 1001,
		"message": {
			"message_id": 7,
			"chat": {"id": -42, "type": "group"},
			"from": {"id": 5, "is_bot": false, "username": "ravi"},
			"date": 1718170000,
			"text": "  stockin qty=50 supplier=Kumar  "
		}
	}`

	BeforeEach(func() {
		router = gin.New()
		svc = &mockIntakeService{}
		h := handler.NewTelegramWebhookHandler(svc, "X-Trace-Id")
		router.POST("/tg/webhook", h.HandleUpdate)
	})

	It("records the message and acknowledges", func() {
		w := post(update, map[string]string{"X-Trace-Id": "abc123"})

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"ok":true}`))

		Expect(svc.calls).To(HaveLen(1))
		params := svc.calls[0]
		Expect(params.UpdateID).To(Equal(int64(1001)))
		Expect(params.ChatID).To(Equal(int64(-42)))
		Expect(params.MessageID).To(Equal(int64(7)))
		Expect(params.Username).To(Equal("ravi"))
		Expect(params.Text).To(Equal("stockin qty=50 supplier=Kumar"))
		Expect(params.TraceID).To(HaveValue(Equal("abc123")))
	})

	It("reads edited messages", func() {
		w := post(`{"update_id": 5, "edited_message": {"message_id": 1, "chat": {"id": 9}, "text": "report"}}`, nil)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(svc.calls).To(HaveLen(1))
		Expect(svc.calls[0].Text).To(Equal("report"))
		Expect(svc.calls[0].Username).To(BeEmpty())
		Expect(svc.calls[0].TraceID).To(BeNil())
	})

	DescribeTable("acknowledges updates it does not record",
		func(body string) {
			w := post(body, nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(MatchJSON(`{"ok":true}`))
			Expect(svc.calls).To(BeEmpty())
		},
		Entry("no message", `{"update_id": 1}`),
		Entry("photo without text", `{"update_id": 2, "message": {"message_id": 1, "chat": {"id": 9}}}`),
		Entry("blank text", `{"update_id": 3, "message": {"message_id": 1, "chat": {"id": 9}, "text": "   "}}`),
	)

	It("acknowledges duplicates and rate-limited chats", func() {
		for _, outcome := range []service.IntakeOutcome{service.IntakeDuplicate, service.IntakeRateLimited} {
			svc.ingestFn = func(context.Context, service.IntakeParams) (*service.IntakeResult, error) {
				return &service.IntakeResult{Outcome: outcome}, nil
			}

			Expect(post(update, nil).Code).To(Equal(http.StatusOK))
		}
	})

	It("acknowledges updates missing ids", func() {
		svc.ingestFn = func(context.Context, service.IntakeParams) (*service.IntakeResult, error) {
			return nil, service.ErrInvalidUpdate
		}

		Expect(post(`{"message": {"message_id": 1, "chat": {"id": 0}, "text": "hi"}}`, nil).Code).To(Equal(http.StatusOK))
	})

	It("returns 500 when the update cannot be recorded", func() {
		svc.ingestFn = func(context.Context, service.IntakeParams) (*service.IntakeResult, error) {
			return nil, errors.New("db down")
		}

		w := post(update, nil)

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["ok"]).To(BeFalse())
	})

	DescribeTable("acknowledges bodies that can never decode",
		func(body string) {
			rec := post(body, nil)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(MatchJSON(`{"ok":true}`))
			Expect(svc.calls).To(BeEmpty())
		},
		Entry("truncated json", `{`),
		Entry("not json", `hello`),
		Entry("wrong field type", `{"update_id":"five"}`),
	)
})
