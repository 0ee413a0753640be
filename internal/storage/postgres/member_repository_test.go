package postgres

import (
	"context"
	"testing"

	"github.com/rhnbztnl/perpustakaan-api/internal/domain"
	"github.com/rhnbztnl/perpustakaan-api/internal/testutil"
)

func TestMemberRepository_CreateMember(t *testing.T) {
	pool := testutil.NewTestPool(t)
	testutil.ApplyMigrations(t, context.Background(), pool)
	repo := NewMemberRepository(pool)

	ctx := context.Background()
	testutil.TruncateAll(t, ctx, pool)

	member, err := repo.CreateMember(ctx, domain.Member{
		MemberCode: "MEM001",
		Name:       "Budi",
		Email:      "budi@example.com",
	})
	if err != nil {
		t.Fatalf("create member: %v", err)
	}
	if member.ID == 0 {
		t.Fatalf("expected member ID to be set")
	}
	if !member.IsActive {
		t.Fatalf("expected new member active")
	}

	_, err = repo.CreateMember(ctx, domain.Member{MemberCode: "MEM001", Name: "Sari"})
	if err != domain.ErrDuplicateMemberCode {
		t.Fatalf("expected ErrDuplicateMemberCode, got %v", err)
	}
}

func TestMemberRepository_ListAndSearch(t *testing.T) {
	pool := testutil.NewTestPool(t)
	testutil.ApplyMigrations(t, context.Background(), pool)
	repo := NewMemberRepository(pool)

	ctx := context.Background()
	testutil.TruncateAll(t, ctx, pool)

	testutil.InsertMember(t, ctx, pool, "MEM001", "Budi", true)
	testutil.InsertMember(t, ctx, pool, "MEM002", "Sari", false)
	testutil.InsertMember(t, ctx, pool, "MEM003", "Citra", true)

	t.Run("active only", func(t *testing.T) {
		members, err := repo.ListMembers(ctx, true)
		if err != nil {
			t.Fatalf("list members: %v", err)
		}
		if len(members) != 2 {
			t.Fatalf("expected 2 active members, got %d", len(members))
		}
	})

	t.Run("everyone", func(t *testing.T) {
		members, err := repo.ListMembers(ctx, false)
		if err != nil {
			t.Fatalf("list members: %v", err)
		}
		if len(members) != 3 {
			t.Fatalf("expected 3 members, got %d", len(members))
		}
	})

	t.Run("search by code", func(t *testing.T) {
		members, err := repo.SearchMembers(ctx, "mem002", false)
		if err != nil {
			t.Fatalf("search members: %v", err)
		}
		if len(members) != 1 || members[0].Name != "Sari" {
			t.Fatalf("unexpected result: %+v", members)
		}
	})

	t.Run("search respects active filter", func(t *testing.T) {
		members, err := repo.SearchMembers(ctx, "sari", true)
		if err != nil {
			t.Fatalf("search members: %v", err)
		}
		if len(members) != 0 {
			t.Fatalf("expected no active match, got %+v", members)
		}
	})
}

func TestMemberRepository_UpdateMember(t *testing.T) {
	pool := testutil.NewTestPool(t)
	testutil.ApplyMigrations(t, context.Background(), pool)
	repo := NewMemberRepository(pool)

	ctx := context.Background()
	testutil.TruncateAll(t, ctx, pool)

	id := testutil.InsertMember(t, ctx, pool, "MEM001", "Budi", true)

	err := repo.UpdateMember(ctx, domain.Member{ID: id, Name: "Budi Santoso", Phone: "0812"})
	if err != nil {
		t.Fatalf("update member: %v", err)
	}

	members, err := repo.ListMembers(ctx, false)
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if members[0].Name != "Budi Santoso" {
		t.Fatalf("expected name updated, got %q", members[0].Name)
	}
	if members[0].MemberCode != "MEM001" {
		t.Fatalf("expected member code untouched, got %q", members[0].MemberCode)
	}

	if err := repo.UpdateMember(ctx, domain.Member{ID: 999, Name: "X"}); err != domain.ErrMemberNotFound {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestMemberRepository_SetMemberActive(t *testing.T) {
	pool := testutil.NewTestPool(t)
	testutil.ApplyMigrations(t, context.Background(), pool)
	repo := NewMemberRepository(pool)

	ctx := context.Background()
	testutil.TruncateAll(t, ctx, pool)

	id := testutil.InsertMember(t, ctx, pool, "MEM001", "Budi", true)

	if err := repo.SetMemberActive(ctx, id, false); err != nil {
		t.Fatalf("deactivate member: %v", err)
	}

	members, err := repo.ListMembers(ctx, false)
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(members) != 1 || members[0].IsActive {
		t.Fatalf("expected row kept and inactive, got %+v", members)
	}

	if err := repo.SetMemberActive(ctx, id, true); err != nil {
		t.Fatalf("activate member: %v", err)
	}
	members, _ = repo.ListMembers(ctx, true)
	if len(members) != 1 {
		t.Fatalf("expected member active again")
	}

	if err := repo.SetMemberActive(ctx, 999, false); err != domain.ErrMemberNotFound {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestMemberRepository_MaxMemberID(t *testing.T) {
	pool := testutil.NewTestPool(t)
	testutil.ApplyMigrations(t, context.Background(), pool)
	repo := NewMemberRepository(pool)

	ctx := context.Background()
	testutil.TruncateAll(t, ctx, pool)

	maxID, err := repo.MaxMemberID(ctx)
	if err != nil {
		t.Fatalf("max member id: %v", err)
	}
	if maxID != 0 {
		t.Fatalf("expected 0 on empty table, got %d", maxID)
	}

	testutil.InsertMember(t, ctx, pool, "MEM001", "Budi", true)
	last := testutil.InsertMember(t, ctx, pool, "MEM002", "Sari", false)

	maxID, err = repo.MaxMemberID(ctx)
	if err != nil {
		t.Fatalf("max member id: %v", err)
	}
	if maxID != last {
		t.Fatalf("expected %d, got %d", last, maxID)
	}
}
