package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/rhnbztnl/perpustakaan-api/internal/app"
	"github.com/rhnbztnl/perpustakaan-api/internal/clock"
	"github.com/rhnbztnl/perpustakaan-api/internal/domain"
	"github.com/rhnbztnl/perpustakaan-api/internal/storage/postgres"
	"github.com/rhnbztnl/perpustakaan-api/internal/testutil"
)

func TestBorrowAndReturn_HTTPIntegration(t *testing.T) {
	pool := testutil.NewTestPool(t)
	testutil.ApplyMigrations(t, context.Background(), pool)
	repo := postgres.NewLoanRepository(pool)

	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	svc := app.NewCirculationService(repo, clock.NewFixed(now))

	ctx := context.Background()
	testutil.TruncateAll(t, ctx, pool)
	bookID := testutil.InsertBook(t, ctx, pool, "Belajar Go", "Budi", 1)
	member1 := testutil.InsertMember(t, ctx, pool, "MEM001", "Budi", true)
	member2 := testutil.InsertMember(t, ctx, pool, "MEM002", "Sari", true)

	mux := http.NewServeMux()
	mux.Handle("/loans", HandleLoans(svc))
	mux.Handle("/loans/", HandleLoanReturn(svc))

	borrow := func(memberID int64) *httptest.ResponseRecorder {
		body := []byte(`{"member_id":` + strconv.FormatInt(memberID, 10) + `,"book_id":` + strconv.FormatInt(bookID, 10) + `}`)
		req := httptest.NewRequest(http.MethodPost, "/loans", bytes.NewBuffer(body))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		return rec
	}

	rec := borrow(member1)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created loanResponse
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.Status != string(domain.LoanStatusBorrowed) {
		t.Fatalf("expected status borrowed, got %s", created.Status)
	}
	if created.LoanDate != "2025-03-10" {
		t.Fatalf("expected loan date 2025-03-10, got %s", created.LoanDate)
	}

	var stock int
	if err := pool.QueryRow(ctx, `SELECT stock FROM books WHERE id = $1`, bookID).Scan(&stock); err != nil {
		t.Fatalf("query stock: %v", err)
	}
	if stock != 0 {
		t.Fatalf("expected stock 0 after borrow, got %d", stock)
	}

	// The last copy is out; the second member is turned away.
	rec2 := borrow(member2)
	if rec2.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d: %s", rec2.Code, rec2.Body.String())
	}

	req := httptest.NewRequest(http.MethodPost, "/loans/"+strconv.FormatInt(created.ID, 10)+"/return", nil)
	rec3 := httptest.NewRecorder()
	mux.ServeHTTP(rec3, req)
	if rec3.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec3.Code, rec3.Body.String())
	}
	var returned loanResponse
	if err := json.NewDecoder(rec3.Body).Decode(&returned); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if returned.Status != string(domain.LoanStatusReturned) {
		t.Fatalf("expected status returned, got %s", returned.Status)
	}
	if returned.ReturnDate == nil || *returned.ReturnDate != "2025-03-10" {
		t.Fatalf("unexpected return date: %v", returned.ReturnDate)
	}

	// Returning again is a conflict, and the copy is borrowable again.
	rec4 := httptest.NewRecorder()
	mux.ServeHTTP(rec4, httptest.NewRequest(http.MethodPost, "/loans/"+strconv.FormatInt(created.ID, 10)+"/return", nil))
	if rec4.Code != http.StatusConflict {
		t.Fatalf("expected status 409 on double return, got %d", rec4.Code)
	}

	rec5 := borrow(member2)
	if rec5.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec5.Code, rec5.Body.String())
	}
}
