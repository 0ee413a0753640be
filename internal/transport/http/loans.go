package http

import (
	"context"
	"net/http"

	"github.com/rhnbztnl/perpustakaan-api/internal/domain"
)

const dateLayout = "2006-01-02"

// CirculationLedger is the minimal interface needed by the loan endpoints.
type CirculationLedger interface {
	Borrow(ctx context.Context, memberID, bookID int64) (domain.Loan, error)
	Return(ctx context.Context, loanID int64) (domain.Loan, error)
	ListLoans(ctx context.Context) ([]domain.LoanDetail, error)
}

// HandleLoans serves the loan listing and the borrow command on /loans.
func HandleLoans(svc CirculationLedger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			loans, err := svc.ListLoans(r.Context())
			if err != nil {
				writeDomainError(w, err)
				return
			}
			resp := make([]loanDetailResponse, 0, len(loans))
			for _, l := range loans {
				resp = append(resp, newLoanDetailResponse(l))
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)
		case http.MethodPost:
			var req borrowRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			if req.MemberID <= 0 || req.BookID <= 0 {
				writeError(w, http.StatusBadRequest, codeInvalidID, "member_id and book_id are required")
				return
			}

			loan, err := svc.Borrow(r.Context(), req.MemberID, req.BookID)
			if err != nil {
				writeDomainError(w, err)
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(newLoanResponse(loan))
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

// HandleLoanReturn serves the return command on /loans/{id}/return.
func HandleLoanReturn(svc CirculationLedger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		parts := splitPath(r.URL.Path)
		if len(parts) != 3 || parts[0] != "loans" || parts[2] != "return" {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		id, ok := parseID(parts[1])
		if !ok {
			writeError(w, http.StatusBadRequest, codeInvalidID, "invalid id")
			return
		}

		loan, err := svc.Return(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(newLoanResponse(loan))
	}
}

type borrowRequest struct {
	MemberID int64 `json:"member_id"`
	BookID   int64 `json:"book_id"`
}

type loanResponse struct {
	ID         int64   `json:"id"`
	BookID     int64   `json:"book_id"`
	MemberID   int64   `json:"member_id"`
	LoanDate   string  `json:"loan_date"`
	ReturnDate *string `json:"return_date"`
	Status     string  `json:"status"`
}

func newLoanResponse(l domain.Loan) loanResponse {
	resp := loanResponse{
		ID:       l.ID,
		BookID:   l.BookID,
		MemberID: l.MemberID,
		LoanDate: l.LoanDate.Format(dateLayout),
		Status:   string(l.Status),
	}
	if l.ReturnDate != nil {
		formatted := l.ReturnDate.Format(dateLayout)
		resp.ReturnDate = &formatted
	}
	return resp
}

type loanDetailResponse struct {
	ID         int64   `json:"id"`
	BookTitle  string  `json:"book_title"`
	MemberName string  `json:"member_name"`
	MemberCode string  `json:"member_code"`
	LoanDate   string  `json:"loan_date"`
	ReturnDate *string `json:"return_date"`
	Status     string  `json:"status"`
}

func newLoanDetailResponse(l domain.LoanDetail) loanDetailResponse {
	resp := loanDetailResponse{
		ID:         l.ID,
		BookTitle:  l.BookTitle,
		MemberName: l.MemberName,
		MemberCode: l.MemberCode,
		LoanDate:   l.LoanDate.Format(dateLayout),
		Status:     string(l.Status),
	}
	if l.ReturnDate != nil {
		formatted := l.ReturnDate.Format(dateLayout)
		resp.ReturnDate = &formatted
	}
	return resp
}
