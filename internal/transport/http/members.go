package http

import (
	"context"
	"net/http"
	"time"

	"github.com/rhnbztnl/perpustakaan-api/internal/app"
	"github.com/rhnbztnl/perpustakaan-api/internal/domain"
)

// MemberDirectory is the minimal interface needed by the member endpoints.
type MemberDirectory interface {
	ListMembers(ctx context.Context, activeOnly bool) ([]domain.Member, error)
	SearchMembers(ctx context.Context, keyword string, activeOnly bool) ([]domain.Member, error)
	CreateMember(ctx context.Context, in app.MemberInput) (domain.Member, error)
	UpdateMember(ctx context.Context, id int64, in app.MemberInput) error
	DeactivateMember(ctx context.Context, id int64) error
	ActivateMember(ctx context.Context, id int64) error
	NextSuggestedCode(ctx context.Context) (string, error)
}

// HandleMembers serves listing/search and registration on /members.
func HandleMembers(svc MemberDirectory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			// Listings default to active members; pass active=false to
			// include deactivated ones.
			activeOnly := r.URL.Query().Get("active") != "false"
			keyword := r.URL.Query().Get("q")

			var (
				members []domain.Member
				err     error
			)
			if keyword != "" {
				members, err = svc.SearchMembers(r.Context(), keyword, activeOnly)
			} else {
				members, err = svc.ListMembers(r.Context(), activeOnly)
			}
			if err != nil {
				writeDomainError(w, err)
				return
			}

			resp := make([]memberResponse, 0, len(members))
			for _, m := range members {
				resp = append(resp, newMemberResponse(m))
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)
		case http.MethodPost:
			var req memberRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}

			member, err := svc.CreateMember(r.Context(), req.toInput())
			if err != nil {
				writeDomainError(w, err)
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(newMemberResponse(member))
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

// HandleMemberByID serves /members/next-code, /members/{id}, and the
// activation toggles /members/{id}/activate and /members/{id}/deactivate.
func HandleMemberByID(svc MemberDirectory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parts := splitPath(r.URL.Path)
		if len(parts) < 2 || parts[0] != "members" {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		if len(parts) == 2 && parts[1] == "next-code" {
			if r.Method != http.MethodGet {
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
				return
			}
			code, err := svc.NextSuggestedCode(r.Context())
			if err != nil {
				writeDomainError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(nextCodeResponse{MemberCode: code})
			return
		}

		id, ok := parseID(parts[1])
		if !ok {
			writeError(w, http.StatusBadRequest, codeInvalidID, "invalid id")
			return
		}

		switch {
		case len(parts) == 2 && r.Method == http.MethodPut:
			var req memberRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			if err := svc.UpdateMember(r.Context(), id, req.toInput()); err != nil {
				writeDomainError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		case len(parts) == 3 && parts[2] == "deactivate" && r.Method == http.MethodPost:
			if err := svc.DeactivateMember(r.Context(), id); err != nil {
				writeDomainError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		case len(parts) == 3 && parts[2] == "activate" && r.Method == http.MethodPost:
			if err := svc.ActivateMember(r.Context(), id); err != nil {
				writeDomainError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		case len(parts) == 2 || (len(parts) == 3 && (parts[2] == "activate" || parts[2] == "deactivate")):
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		default:
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
		}
	}
}

type memberRequest struct {
	MemberCode string `json:"member_code"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
}

func (r memberRequest) toInput() app.MemberInput {
	return app.MemberInput{
		MemberCode: r.MemberCode,
		Name:       r.Name,
		Email:      r.Email,
		Phone:      r.Phone,
		Address:    r.Address,
	}
}

type memberResponse struct {
	ID         int64     `json:"id"`
	MemberCode string    `json:"member_code"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Address    string    `json:"address"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

func newMemberResponse(m domain.Member) memberResponse {
	return memberResponse{
		ID:         m.ID,
		MemberCode: m.MemberCode,
		Name:       m.Name,
		Email:      m.Email,
		Phone:      m.Phone,
		Address:    m.Address,
		IsActive:   m.IsActive,
		CreatedAt:  m.CreatedAt,
	}
}

type nextCodeResponse struct {
	MemberCode string `json:"member_code"`
}
