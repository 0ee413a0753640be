package postgres

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect import
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rhnbztnl/perpustakaan-api/internal/domain"
)

var pgDialect = goqu.Dialect("postgres")

var memberColumns = []any{
	"id", "member_code", "name", "email", "phone", "address", "is_active", "created_at",
}

type MemberRepository struct {
	pool *pgxpool.Pool
}

func NewMemberRepository(pool *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{pool: pool}
}

func (r *MemberRepository) ListMembers(ctx context.Context, activeOnly bool) ([]domain.Member, error) {
	ds := pgDialect.From("members").
		Select(memberColumns...).
		Order(goqu.I("created_at").Desc())
	if activeOnly {
		ds = ds.Where(goqu.C("is_active").IsTrue())
	}
	return r.queryMembers(ctx, ds, "list members")
}

func (r *MemberRepository) SearchMembers(ctx context.Context, keyword string, activeOnly bool) ([]domain.Member, error) {
	pattern := "%" + keyword + "%"
	ds := pgDialect.From("members").
		Select(memberColumns...).
		Where(goqu.Or(
			goqu.C("name").ILike(pattern),
			goqu.C("member_code").ILike(pattern),
			goqu.C("email").ILike(pattern),
		)).
		Order(goqu.I("created_at").Desc())
	if activeOnly {
		ds = ds.Where(goqu.C("is_active").IsTrue())
	}
	return r.queryMembers(ctx, ds, "search members")
}

func (r *MemberRepository) queryMembers(ctx context.Context, ds *goqu.SelectDataset, op string) ([]domain.Member, error) {
	sql, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("%s: build query: %w", op, err)
	}

	rows, err := r.query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(
			&m.ID, &m.MemberCode, &m.Name, &m.Email, &m.Phone, &m.Address, &m.IsActive, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: scan member: %w", op, err)
		}
		members = append(members, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("%s: iterate members: %w", op, rows.Err())
	}
	return members, nil
}

func (r *MemberRepository) CreateMember(ctx context.Context, member domain.Member) (domain.Member, error) {
	const stmt = `
INSERT INTO members (member_code, name, email, phone, address, is_active)
VALUES ($1, $2, $3, $4, $5, TRUE)
RETURNING id, created_at`

	err := r.queryRow(ctx, stmt,
		member.MemberCode, member.Name, member.Email, member.Phone, member.Address,
	).Scan(&member.ID, &member.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Member{}, domain.ErrDuplicateMemberCode
		}
		return domain.Member{}, fmt.Errorf("create member: %w", err)
	}
	member.IsActive = true
	return member, nil
}

// UpdateMember never touches member_code; the code is immutable once
// assigned.
func (r *MemberRepository) UpdateMember(ctx context.Context, member domain.Member) error {
	const stmt = `
UPDATE members
SET name = $2, email = $3, phone = $4, address = $5
WHERE id = $1`

	tag, err := r.exec(ctx, stmt,
		member.ID, member.Name, member.Email, member.Phone, member.Address,
	)
	if err != nil {
		return fmt.Errorf("update member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func (r *MemberRepository) SetMemberActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.exec(ctx, `UPDATE members SET is_active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("set member active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func (r *MemberRepository) MaxMemberID(ctx context.Context) (int64, error) {
	var maxID int64
	if err := r.queryRow(ctx, `SELECT COALESCE(MAX(id), 0) FROM members`).Scan(&maxID); err != nil {
		return 0, fmt.Errorf("max member id: %w", err)
	}
	return maxID, nil
}

func (r *MemberRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *MemberRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}

func (r *MemberRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
