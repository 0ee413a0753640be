package app

import (
	"context"
	"fmt"

	"github.com/rhnbztnl/perpustakaan-api/internal/domain"
)

type MemberRepository interface {
	ListMembers(ctx context.Context, activeOnly bool) ([]domain.Member, error)
	SearchMembers(ctx context.Context, keyword string, activeOnly bool) ([]domain.Member, error)
	CreateMember(ctx context.Context, member domain.Member) (domain.Member, error)
	UpdateMember(ctx context.Context, member domain.Member) error
	SetMemberActive(ctx context.Context, id int64, active bool) error
	MaxMemberID(ctx context.Context) (int64, error)
}

// MemberService owns member records. Deactivation is a soft, reversible
// transition; members are never physically removed.
type MemberService struct {
	repo MemberRepository
}

func NewMemberService(repo MemberRepository) *MemberService {
	return &MemberService{repo: repo}
}

type MemberInput struct {
	MemberCode string
	Name       string
	Email      string
	Phone      string
	Address    string
}

func (s *MemberService) ListMembers(ctx context.Context, activeOnly bool) ([]domain.Member, error) {
	return s.repo.ListMembers(ctx, activeOnly)
}

func (s *MemberService) SearchMembers(ctx context.Context, keyword string, activeOnly bool) ([]domain.Member, error) {
	if keyword == "" {
		return s.repo.ListMembers(ctx, activeOnly)
	}
	return s.repo.SearchMembers(ctx, keyword, activeOnly)
}

func (s *MemberService) CreateMember(ctx context.Context, in MemberInput) (domain.Member, error) {
	if in.MemberCode == "" {
		return domain.Member{}, domain.ErrMemberCodeRequired
	}
	if in.Name == "" {
		return domain.Member{}, domain.ErrMemberNameRequired
	}
	return s.repo.CreateMember(ctx, domain.Member{
		MemberCode: in.MemberCode,
		Name:       in.Name,
		Email:      in.Email,
		Phone:      in.Phone,
		Address:    in.Address,
	})
}

// UpdateMember ignores the member code; it is immutable after creation.
func (s *MemberService) UpdateMember(ctx context.Context, id int64, in MemberInput) error {
	if in.Name == "" {
		return domain.ErrMemberNameRequired
	}
	return s.repo.UpdateMember(ctx, domain.Member{
		ID:      id,
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Address: in.Address,
	})
}

func (s *MemberService) DeactivateMember(ctx context.Context, id int64) error {
	return s.repo.SetMemberActive(ctx, id, false)
}

func (s *MemberService) ActivateMember(ctx context.Context, id int64) error {
	return s.repo.SetMemberActive(ctx, id, true)
}

// NextSuggestedCode proposes the next member code based on the highest
// assigned id. Purely advisory; uniqueness is enforced on create.
func (s *MemberService) NextSuggestedCode(ctx context.Context) (string, error) {
	maxID, err := s.repo.MaxMemberID(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("MEM%03d", maxID+1), nil
}
