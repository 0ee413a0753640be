package http

import (
	"errors"
	"net/http"

	"github.com/rhnbztnl/perpustakaan-api/internal/domain"
)

const (
	codeMethodNotAllowed   = "method_not_allowed"
	codeNotFound           = "not_found"
	codeInvalidRequestBody = "invalid_request_body"
	codeInvalidID          = "invalid_id"
	codeInvalidDate        = "invalid_date"
	codeForbidden          = "forbidden"
	codeInternalError      = "internal_error"

	codeInactiveMember       = "inactive_member"
	codeOutOfStock           = "out_of_stock"
	codeDuplicateActiveLoan  = "duplicate_active_loan"
	codeLoanLimitExceeded    = "loan_limit_exceeded"
	codeAlreadyReturned      = "already_returned"
	codeTitleRequired        = "title_required"
	codeAuthorRequired       = "author_required"
	codeMemberCodeRequired   = "member_code_required"
	codeMemberNameRequired   = "member_name_required"
	codeCategoryNameRequired = "category_name_required"
	codeInvalidStock         = "invalid_stock"
	codeInvalidPeriod        = "invalid_period"
	codeBookNotFound         = "book_not_found"
	codeMemberNotFound       = "member_not_found"
	codeLoanNotFound         = "loan_not_found"
	codeCategoryNotFound     = "category_not_found"
	codeNegativeStock        = "negative_stock"
	codeDuplicateMemberCode  = "duplicate_member_code"
	codeBookHasLoans         = "book_has_loans"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeDomainError maps a service error to its HTTP status and code.
// Business-rule violations are conflicts, bad input is a bad request,
// unknown ids are not found; anything unexpected is a 500.
func writeDomainError(w http.ResponseWriter, err error) {
	status, code := http.StatusInternalServerError, codeInternalError

	switch {
	case errors.Is(err, domain.ErrInactiveMember):
		status, code = http.StatusConflict, codeInactiveMember
	case errors.Is(err, domain.ErrOutOfStock):
		status, code = http.StatusConflict, codeOutOfStock
	case errors.Is(err, domain.ErrDuplicateActiveLoan):
		status, code = http.StatusConflict, codeDuplicateActiveLoan
	case errors.Is(err, domain.ErrLoanLimitExceeded):
		status, code = http.StatusConflict, codeLoanLimitExceeded
	case errors.Is(err, domain.ErrAlreadyReturned):
		status, code = http.StatusConflict, codeAlreadyReturned
	case errors.Is(err, domain.ErrNegativeStock):
		status, code = http.StatusConflict, codeNegativeStock
	case errors.Is(err, domain.ErrDuplicateMemberCode):
		status, code = http.StatusConflict, codeDuplicateMemberCode
	case errors.Is(err, domain.ErrBookHasLoans):
		status, code = http.StatusConflict, codeBookHasLoans
	case errors.Is(err, domain.ErrTitleRequired):
		status, code = http.StatusBadRequest, codeTitleRequired
	case errors.Is(err, domain.ErrAuthorRequired):
		status, code = http.StatusBadRequest, codeAuthorRequired
	case errors.Is(err, domain.ErrMemberCodeRequired):
		status, code = http.StatusBadRequest, codeMemberCodeRequired
	case errors.Is(err, domain.ErrMemberNameRequired):
		status, code = http.StatusBadRequest, codeMemberNameRequired
	case errors.Is(err, domain.ErrCategoryNameRequired):
		status, code = http.StatusBadRequest, codeCategoryNameRequired
	case errors.Is(err, domain.ErrInvalidStock):
		status, code = http.StatusBadRequest, codeInvalidStock
	case errors.Is(err, domain.ErrInvalidPeriod):
		status, code = http.StatusBadRequest, codeInvalidPeriod
	case errors.Is(err, domain.ErrBookNotFound):
		status, code = http.StatusNotFound, codeBookNotFound
	case errors.Is(err, domain.ErrMemberNotFound):
		status, code = http.StatusNotFound, codeMemberNotFound
	case errors.Is(err, domain.ErrLoanNotFound):
		status, code = http.StatusNotFound, codeLoanNotFound
	case errors.Is(err, domain.ErrCategoryNotFound):
		status, code = http.StatusNotFound, codeCategoryNotFound
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeError(w, status, code, msg)
}
