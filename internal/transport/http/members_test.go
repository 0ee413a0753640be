package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rhnbztnl/perpustakaan-api/internal/app"
	"github.com/rhnbztnl/perpustakaan-api/internal/domain"
)

func TestHandleMembers(t *testing.T) {
	t.Parallel()

	member := domain.Member{
		ID:         1,
		MemberCode: "MEM001",
		Name:       "Budi",
		IsActive:   true,
	}

	t.Run("list defaults to active members", func(t *testing.T) {
		t.Parallel()
		svc := &stubMemberService{members: []domain.Member{member}}

		req := httptest.NewRequest(http.MethodGet, "/members", nil)
		rec := httptest.NewRecorder()
		HandleMembers(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if !svc.lastActiveOnly {
			t.Fatalf("expected activeOnly to default to true")
		}
	})

	t.Run("active=false lists everyone", func(t *testing.T) {
		t.Parallel()
		svc := &stubMemberService{}

		req := httptest.NewRequest(http.MethodGet, "/members?active=false", nil)
		rec := httptest.NewRecorder()
		HandleMembers(svc).ServeHTTP(rec, req)

		if svc.lastActiveOnly {
			t.Fatalf("expected activeOnly false")
		}
	})

	t.Run("search passes keyword and filter", func(t *testing.T) {
		t.Parallel()
		svc := &stubMemberService{}

		req := httptest.NewRequest(http.MethodGet, "/members?q=budi&active=false", nil)
		rec := httptest.NewRecorder()
		HandleMembers(svc).ServeHTTP(rec, req)

		if svc.searchedWith != "budi" || svc.lastActiveOnly {
			t.Fatalf("unexpected search call: keyword=%q activeOnly=%v", svc.searchedWith, svc.lastActiveOnly)
		}
	})

	t.Run("create", func(t *testing.T) {
		t.Parallel()
		svc := &stubMemberService{created: member}

		body := `{"member_code":"MEM001","name":"Budi"}`
		req := httptest.NewRequest(http.MethodPost, "/members", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()
		HandleMembers(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"member_code":"MEM001"`) {
			t.Fatalf("unexpected body: %q", rec.Body.String())
		}
	})

	t.Run("create duplicate code", func(t *testing.T) {
		t.Parallel()
		svc := &stubMemberService{err: domain.ErrDuplicateMemberCode}

		body := `{"member_code":"MEM001","name":"Budi"}`
		req := httptest.NewRequest(http.MethodPost, "/members", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()
		HandleMembers(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected status 409, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"code":"duplicate_member_code"`) {
			t.Fatalf("unexpected body: %q", rec.Body.String())
		}
	})
}

func TestHandleMemberByID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "next code",
			method:         http.MethodGet,
			path:           "/members/next-code",
			expectedStatus: http.StatusOK,
			expectedSubstr: `"member_code":"MEM008"`,
		},
		{
			name:           "next code wrong method",
			method:         http.MethodPost,
			path:           "/members/next-code",
			expectedStatus: http.StatusMethodNotAllowed,
		},
		{
			name:           "update",
			method:         http.MethodPut,
			path:           "/members/1",
			body:           `{"name":"Budi Santoso"}`,
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "update unknown member",
			method:         http.MethodPut,
			path:           "/members/99",
			body:           `{"name":"Budi"}`,
			serviceErr:     domain.ErrMemberNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "deactivate",
			method:         http.MethodPost,
			path:           "/members/1/deactivate",
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "activate",
			method:         http.MethodPost,
			path:           "/members/1/activate",
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "activate wrong method",
			method:         http.MethodGet,
			path:           "/members/1/activate",
			expectedStatus: http.StatusMethodNotAllowed,
		},
		{
			name:           "invalid id",
			method:         http.MethodPut,
			path:           "/members/abc",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown action",
			method:         http.MethodPost,
			path:           "/members/1/promote",
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubMemberService{nextCode: "MEM008", err: tt.serviceErr}
			req := httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			HandleMemberByID(svc).ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
			if tt.expectedSubstr != "" && !strings.Contains(rec.Body.String(), tt.expectedSubstr) {
				t.Fatalf("expected response to contain %q, got %q", tt.expectedSubstr, rec.Body.String())
			}
		})
	}
}

type stubMemberService struct {
	members  []domain.Member
	created  domain.Member
	nextCode string
	err      error

	lastActiveOnly bool
	searchedWith   string
}

func (s *stubMemberService) ListMembers(_ context.Context, activeOnly bool) ([]domain.Member, error) {
	s.lastActiveOnly = activeOnly
	if s.err != nil {
		return nil, s.err
	}
	return s.members, nil
}

func (s *stubMemberService) SearchMembers(_ context.Context, keyword string, activeOnly bool) ([]domain.Member, error) {
	s.searchedWith = keyword
	s.lastActiveOnly = activeOnly
	if s.err != nil {
		return nil, s.err
	}
	return s.members, nil
}

func (s *stubMemberService) CreateMember(_ context.Context, _ app.MemberInput) (domain.Member, error) {
	if s.err != nil {
		return domain.Member{}, s.err
	}
	return s.created, nil
}

func (s *stubMemberService) UpdateMember(_ context.Context, _ int64, _ app.MemberInput) error {
	return s.err
}

func (s *stubMemberService) DeactivateMember(_ context.Context, _ int64) error {
	return s.err
}

func (s *stubMemberService) ActivateMember(_ context.Context, _ int64) error {
	return s.err
}

func (s *stubMemberService) NextSuggestedCode(_ context.Context) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.nextCode, nil
}
