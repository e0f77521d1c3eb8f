package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-telegram/bot/models"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"sawmill.app/ledger/internal/http/handler"
	"sawmill.app/ledger/internal/model"
	"sawmill.app/ledger/internal/telegram"
)

var _ = Describe("DebugHandler", func() {
	var (
		router  *gin.Engine
		bot     *mockBot
		batches *mockStockBatchStore
	)

	serve := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		router = gin.New()
		bot = &mockBot{}
		batches = &mockStockBatchStore{}
		h := handler.NewDebugHandler(bot, batches)
		router.GET("/debug/getme", h.GetMe)
		router.POST("/debug/test_send", h.TestSend)
		router.GET("/debug/stock", h.Stock)
	})

	Describe("GetMe", func() {
		It("returns the bot with a masked token", func() {
			w := serve(http.MethodGet, "/debug/getme", "")

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["ok"]).To(BeTrue())
			Expect(resp["token"]).To(Equal("123456:****GHIJ"))
			Expect(resp["bot"]).To(HaveKeyWithValue("username", "sawmill_bot"))
		})

		It("returns 502 when Telegram fails", func() {
			bot.getMeFn = func(context.Context) (*models.User, error) {
				return nil, telegram.ErrNoToken
			}

			Expect(serve(http.MethodGet, "/debug/getme", "").Code).To(Equal(http.StatusBadGateway))
		})
	})

	Describe("TestSend", func() {
		It("sends the message", func() {
			var gotChat int64
			var gotText string
			bot.sendFn = func(_ context.Context, chatID int64, text string, _ int64) (*models.Message, error) {
				gotChat, gotText = chatID, text
				return &models.Message{ID: 12}, nil
			}

			w := serve(http.MethodPost, "/debug/test_send", `{"chat_id": -42, "text": "ping"}`)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(MatchJSON(`{"ok":true,"message_id":12}`))
			Expect(gotChat).To(Equal(int64(-42)))
			Expect(gotText).To(Equal("ping"))
		})

		It("requires chat_id and text", func() {
			Expect(serve(http.MethodPost, "/debug/test_send", `{"text": "ping"}`).Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 502 when the send fails", func() {
			bot.sendFn = func(context.Context, int64, string, int64) (*models.Message, error) {
				return nil, errors.New("chat not found")
			}

			Expect(serve(http.MethodPost, "/debug/test_send", `{"chat_id": 1, "text": "x"}`).Code).To(Equal(http.StatusBadGateway))
		})
	})

	Describe("Stock", func() {
		It("lists the latest batches", func() {
			volume := 120.5
			batches.listRecentFn = func(context.Context, int32) ([]model.StockBatch, error) {
				return []model.StockBatch{{
					ID:           3,
					SupplierName: "Kumar",
					QtyLogs:      50,
					VolumeCFT:    &volume,
					EntryDate:    time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC),
				}}, nil
			}

			w := serve(http.MethodGet, "/debug/stock", "")

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(batches.limits).To(Equal([]int32{10}))

			var resp struct {
				OK      bool `json:"ok"`
				Batches []struct {
					ID        int64   `json:"id"`
					Supplier  string  `json:"supplier_name"`
					QtyLogs   int     `json:"qty_logs"`
					VolumeCFT float64 `json:"volume_cft"`
					EntryDate string  `json:"entry_date"`
				} `json:"batches"`
			}
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.OK).To(BeTrue())
			Expect(resp.Batches).To(HaveLen(1))
			Expect(resp.Batches[0].Supplier).To(Equal("Kumar"))
			Expect(resp.Batches[0].VolumeCFT).To(Equal(120.5))
			Expect(resp.Batches[0].EntryDate).To(Equal("2024-06-12"))
		})

		It("returns an empty list rather than null", func() {
			w := serve(http.MethodGet, "/debug/stock", "")

			Expect(w.Body.String()).To(MatchJSON(`{"ok":true,"batches":[]}`))
		})

		It("returns 500 when the store fails", func() {
			batches.listRecentFn = func(context.Context, int32) ([]model.StockBatch, error) {
				return nil, errors.New("db down")
			}

			Expect(serve(http.MethodGet, "/debug/stock", "").Code).To(Equal(http.StatusInternalServerError))
		})
	})
})

var _ = Describe("HealthHandler", func() {
	It("reports the service and environment", func() {
		router := gin.New()
		h := handler.NewHealthHandler("sawmill-ledger", "production")
		router.GET("/health", h.Health)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"ok":true,"service":"sawmill-ledger","env":"production"}`))
	})
})
