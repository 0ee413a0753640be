package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/rhnbztnl/perpustakaan-api/internal/domain"
)

// Reporting is the minimal interface needed by the report endpoints.
type Reporting interface {
	KPIs(ctx context.Context) (domain.KPIStats, error)
	UrgentTasks(ctx context.Context, limit int) ([]domain.UrgentTask, error)
	RecentActivity(ctx context.Context, limit int) ([]domain.Activity, error)
	LoansByPeriod(ctx context.Context, start, end time.Time) ([]domain.LoanDetail, error)
	OverdueLoans(ctx context.Context) ([]domain.OverdueLoan, error)
	PopularBooks(ctx context.Context, limit int) ([]domain.BookCount, error)
	NeverBorrowedBooks(ctx context.Context) ([]domain.BookDetail, error)
	TopBorrowers(ctx context.Context, limit int) ([]domain.BorrowerCount, error)
	LowStockBooks(ctx context.Context, limit int) ([]domain.LowStockBook, error)
	SummaryStats(ctx context.Context) (domain.SummaryStats, error)
}

// HandleReports dispatches the read-only report endpoints under /reports/.
func HandleReports(svc Reporting) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		parts := splitPath(r.URL.Path)
		if len(parts) != 2 || parts[0] != "reports" {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		switch parts[1] {
		case "kpis":
			stats, err := svc.KPIs(r.Context())
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, kpiResponse{
				BooksAvailable: stats.BooksAvailable,
				BooksBorrowed:  stats.BooksBorrowed,
				ActiveMembers:  stats.ActiveMembers,
				TotalOverdue:   stats.TotalOverdue,
			})
		case "urgent":
			tasks, err := svc.UrgentTasks(r.Context(), queryLimit(r, 5))
			if err != nil {
				writeDomainError(w, err)
				return
			}
			resp := make([]urgentTaskResponse, 0, len(tasks))
			for _, t := range tasks {
				resp = append(resp, urgentTaskResponse{
					LoanID:     t.LoanID,
					MemberName: t.MemberName,
					BookTitle:  t.BookTitle,
					DueDate:    t.DueDate.Format(dateLayout),
				})
			}
			writeJSON(w, resp)
		case "activity":
			activity, err := svc.RecentActivity(r.Context(), queryLimit(r, 10))
			if err != nil {
				writeDomainError(w, err)
				return
			}
			resp := make([]activityResponse, 0, len(activity))
			for _, a := range activity {
				resp = append(resp, activityResponse{
					Type:       string(a.Type),
					Date:       a.Date.Format(dateLayout),
					MemberName: a.MemberName,
					BookTitle:  a.BookTitle,
				})
			}
			writeJSON(w, resp)
		case "loans":
			start, err := time.Parse(dateLayout, r.URL.Query().Get("start"))
			if err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidDate, "invalid start date")
				return
			}
			end, err := time.Parse(dateLayout, r.URL.Query().Get("end"))
			if err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidDate, "invalid end date")
				return
			}
			loans, err := svc.LoansByPeriod(r.Context(), start, end)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			resp := make([]loanDetailResponse, 0, len(loans))
			for _, l := range loans {
				resp = append(resp, newLoanDetailResponse(l))
			}
			writeJSON(w, resp)
		case "overdue":
			loans, err := svc.OverdueLoans(r.Context())
			if err != nil {
				writeDomainError(w, err)
				return
			}
			resp := make([]overdueLoanResponse, 0, len(loans))
			for _, l := range loans {
				resp = append(resp, overdueLoanResponse{
					LoanID:        l.LoanID,
					MemberName:    l.MemberName,
					BookTitle:     l.BookTitle,
					LoanDate:      l.LoanDate.Format(dateLayout),
					DaysOverdue:   l.DaysOverdue,
					EstimatedFine: l.EstimatedFine,
				})
			}
			writeJSON(w, resp)
		case "popular-books":
			books, err := svc.PopularBooks(r.Context(), queryLimit(r, 10))
			if err != nil {
				writeDomainError(w, err)
				return
			}
			resp := make([]bookCountResponse, 0, len(books))
			for _, b := range books {
				resp = append(resp, bookCountResponse(b))
			}
			writeJSON(w, resp)
		case "never-borrowed":
			books, err := svc.NeverBorrowedBooks(r.Context())
			if err != nil {
				writeDomainError(w, err)
				return
			}
			resp := make([]bookResponse, 0, len(books))
			for _, b := range books {
				resp = append(resp, newBookResponse(b))
			}
			writeJSON(w, resp)
		case "top-borrowers":
			borrowers, err := svc.TopBorrowers(r.Context(), queryLimit(r, 10))
			if err != nil {
				writeDomainError(w, err)
				return
			}
			resp := make([]borrowerCountResponse, 0, len(borrowers))
			for _, b := range borrowers {
				resp = append(resp, borrowerCountResponse(b))
			}
			writeJSON(w, resp)
		case "low-stock":
			books, err := svc.LowStockBooks(r.Context(), queryLimit(r, 20))
			if err != nil {
				writeDomainError(w, err)
				return
			}
			resp := make([]lowStockResponse, 0, len(books))
			for _, b := range books {
				resp = append(resp, lowStockResponse(b))
			}
			writeJSON(w, resp)
		case "summary":
			stats, err := svc.SummaryStats(r.Context())
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, summaryResponse{
				TotalBooks:    stats.TotalBooks,
				ActiveMembers: stats.ActiveMembers,
				ActiveLoans:   stats.ActiveLoans,
				OverdueCount:  stats.OverdueCount,
				TotalFines:    stats.TotalFines,
			})
		default:
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func queryLimit(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}

type kpiResponse struct {
	BooksAvailable int `json:"books_available"`
	BooksBorrowed  int `json:"books_borrowed"`
	ActiveMembers  int `json:"active_members"`
	TotalOverdue   int `json:"total_overdue"`
}

type urgentTaskResponse struct {
	LoanID     int64  `json:"loan_id"`
	MemberName string `json:"member_name"`
	BookTitle  string `json:"book_title"`
	DueDate    string `json:"due_date"`
}

type activityResponse struct {
	Type       string `json:"type"`
	Date       string `json:"date"`
	MemberName string `json:"member_name"`
	BookTitle  string `json:"book_title"`
}

type overdueLoanResponse struct {
	LoanID        int64  `json:"loan_id"`
	MemberName    string `json:"member_name"`
	BookTitle     string `json:"book_title"`
	LoanDate      string `json:"loan_date"`
	DaysOverdue   int    `json:"days_overdue"`
	EstimatedFine int64  `json:"estimated_fine"`
}

type bookCountResponse struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	BorrowCount int    `json:"borrow_count"`
}

type borrowerCountResponse struct {
	Name        string `json:"name"`
	MemberCode  string `json:"member_code"`
	BorrowCount int    `json:"borrow_count"`
}

type lowStockResponse struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Stock  int    `json:"stock"`
}

type summaryResponse struct {
	TotalBooks    int   `json:"total_books"`
	ActiveMembers int   `json:"active_members"`
	ActiveLoans   int   `json:"active_loans"`
	OverdueCount  int   `json:"overdue_count"`
	TotalFines    int64 `json:"total_fines"`
}
