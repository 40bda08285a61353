package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gestix/gestix/internal/auth"
	"github.com/gestix/gestix/internal/handler/dto"
	"github.com/gestix/gestix/internal/model"
)

// fakeHistorySource records the statuses it was asked for.
type fakeHistorySource struct {
	orders        []*model.ServiceOrder
	askedStatuses []model.OrderStatus
}

func (f *fakeHistorySource) ListByStatuses(_ context.Context, userID string, statuses []model.OrderStatus) ([]*model.ServiceOrder, error) {
	f.askedStatuses = statuses

	wanted := make(map[model.OrderStatus]bool)
	for _, s := range statuses {
		wanted[s] = true
	}
	var out []*model.ServiceOrder
	for _, o := range f.orders {
		if o.UserID == userID && wanted[o.Status] {
			out = append(out, o)
		}
	}
	return out, nil
}

func historyOrder(userID, title string, status model.OrderStatus) *model.ServiceOrder {
	now := time.Now().UTC()
	return &model.ServiceOrder{
		ID:        "order-" + title,
		UserID:    userID,
		Title:     title,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestHistory_ListsOnlyTerminalOrders(t *testing.T) {
	t.Parallel()

	source := &fakeHistorySource{orders: []*model.ServiceOrder{
		historyOrder("user-1", "aberta", model.OrderStatusPending),
		historyOrder("user-1", "entregue", model.OrderStatusDelivered),
		historyOrder("user-1", "cancelada", model.OrderStatusCancelled),
		historyOrder("user-2", "alheia", model.OrderStatusDelivered),
	}}
	h := NewHistoryHandler(source, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/history", nil)
	req = req.WithContext(auth.ContextWithSession(req.Context(), testSession("user-1")))
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	if len(source.askedStatuses) != len(model.TerminalOrderStatuses) {
		t.Errorf("asked for %d statuses, want the terminal set", len(source.askedStatuses))
	}

	var resp dto.ListResponse[*model.ServiceOrder]
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("history returned %d orders, want 2", len(resp.Data))
	}
	for _, o := range resp.Data {
		if o.UserID != "user-1" {
			t.Errorf("history leaked order of %s", o.UserID)
		}
	}
}

func TestHistory_Search(t *testing.T) {
	t.Parallel()

	source := &fakeHistorySource{orders: []*model.ServiceOrder{
		historyOrder("user-1", "Troca de tela", model.OrderStatusDelivered),
		historyOrder("user-1", "Limpeza interna", model.OrderStatusCompleted),
	}}
	h := NewHistoryHandler(source, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/history?q=tela", nil)
	req = req.WithContext(auth.ContextWithSession(req.Context(), testSession("user-1")))
	rec := httptest.NewRecorder()
	h.List(rec, req)

	var resp dto.ListResponse[*model.ServiceOrder]
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].Title != "Troca de tela" {
		t.Errorf("search result = %+v", resp.Data)
	}
}

func TestHistory_EmptyIsArray(t *testing.T) {
	t.Parallel()

	h := NewHistoryHandler(&fakeHistorySource{}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/history", nil)
	req = req.WithContext(auth.ContextWithSession(req.Context(), testSession("user-1")))
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if got := rec.Body.String(); !strings.Contains(got, `"data":[]`) {
		t.Errorf("empty history should render as [], got: %s", got)
	}
}
