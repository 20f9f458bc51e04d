package board

import (
	"context"
	"errors"
	"testing"
)

// --- ホップのモック ---

type mockListHop struct {
	fn func(ctx context.Context, listID string) (string, error)
}

func (m *mockListHop) BoardIDByListID(ctx context.Context, listID string) (string, error) {
	return m.fn(ctx, listID)
}

type mockCardHop struct {
	fn func(ctx context.Context, cardID string) (string, error)
}

func (m *mockCardHop) ListIDByCardID(ctx context.Context, cardID string) (string, error) {
	return m.fn(ctx, cardID)
}

type mockChecklistHop struct {
	fn func(ctx context.Context, checklistID string) (string, error)
}

func (m *mockChecklistHop) CardIDByChecklistID(ctx context.Context, checklistID string) (string, error) {
	return m.fn(ctx, checklistID)
}

type mockPointHop struct {
	fn func(ctx context.Context, pointID string) (string, error)
}

func (m *mockPointHop) ChecklistIDByPointID(ctx context.Context, pointID string) (string, error) {
	return m.fn(ctx, pointID)
}

type mockCommentHop struct {
	fn func(ctx context.Context, commentID string) (string, error)
}

func (m *mockCommentHop) CardIDByCommentID(ctx context.Context, commentID string) (string, error) {
	return m.fn(ctx, commentID)
}

// newChainResolver はc1→l1→b1のカードチェーンとcl1→c1、pt1→cl1、cm1→c1の
// 親子関係を持つResolverを返す。未知のIDはどのホップでも空文字列を返す。
func newChainResolver() *Resolver {
	return NewResolver(
		&mockListHop{fn: func(ctx context.Context, listID string) (string, error) {
			if listID == "l1" {
				return "b1", nil
			}
			return "", nil
		}},
		&mockCardHop{fn: func(ctx context.Context, cardID string) (string, error) {
			if cardID == "c1" {
				return "l1", nil
			}
			return "", nil
		}},
		&mockChecklistHop{fn: func(ctx context.Context, checklistID string) (string, error) {
			if checklistID == "cl1" {
				return "c1", nil
			}
			return "", nil
		}},
		&mockPointHop{fn: func(ctx context.Context, pointID string) (string, error) {
			if pointID == "pt1" {
				return "cl1", nil
			}
			return "", nil
		}},
		&mockCommentHop{fn: func(ctx context.Context, commentID string) (string, error) {
			if commentID == "cm1" {
				return "c1", nil
			}
			return "", nil
		}},
	)
}

// TestResolver_FullChains は各エンティティ種別の完全なチェーンがボードIDに解決されることを検証する。
func TestResolver_FullChains(t *testing.T) {
	r := newChainResolver()
	ctx := context.Background()

	tests := []struct {
		name    string
		resolve func() (string, error)
	}{
		{"リストから1ホップ", func() (string, error) { return r.FromList(ctx, "l1") }},
		{"カードから2ホップ", func() (string, error) { return r.FromCard(ctx, "c1") }},
		{"チェックリストから3ホップ", func() (string, error) { return r.FromChecklist(ctx, "cl1") }},
		{"項目から4ホップ", func() (string, error) { return r.FromPoint(ctx, "pt1") }},
		{"コメントから3ホップ", func() (string, error) { return r.FromComment(ctx, "cm1") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			boardID, err := tt.resolve()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if boardID != "b1" {
				t.Errorf("boardID = %q, want b1", boardID)
			}
		})
	}
}

// TestResolver_BrokenChain は途中のホップが欠けたチェーンが空文字列に解決されることを検証する。
func TestResolver_BrokenChain(t *testing.T) {
	ctx := context.Background()

	// リスト行が存在しないためカードの2ホップ目で途切れる
	r := NewResolver(
		&mockListHop{fn: func(ctx context.Context, listID string) (string, error) {
			return "", nil
		}},
		&mockCardHop{fn: func(ctx context.Context, cardID string) (string, error) {
			return "l-missing", nil
		}},
		&mockChecklistHop{fn: func(ctx context.Context, checklistID string) (string, error) {
			return "", nil
		}},
		&mockPointHop{fn: func(ctx context.Context, pointID string) (string, error) {
			return "", nil
		}},
		&mockCommentHop{fn: func(ctx context.Context, commentID string) (string, error) {
			return "", nil
		}},
	)

	boardID, err := r.FromCard(ctx, "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if boardID != "" {
		t.Errorf("boardID = %q, want empty for broken chain", boardID)
	}

	boardID, err = r.FromChecklist(ctx, "cl-missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if boardID != "" {
		t.Errorf("boardID = %q, want empty for missing checklist", boardID)
	}
}

// TestResolver_EmptyID は空IDがどのホップにも問い合わせず空文字列に解決されることを検証する。
func TestResolver_EmptyID(t *testing.T) {
	called := false
	r := NewResolver(
		&mockListHop{fn: func(ctx context.Context, listID string) (string, error) {
			called = true
			return "", nil
		}},
		&mockCardHop{fn: func(ctx context.Context, cardID string) (string, error) {
			called = true
			return "", nil
		}},
		&mockChecklistHop{fn: func(ctx context.Context, checklistID string) (string, error) {
			called = true
			return "", nil
		}},
		&mockPointHop{fn: func(ctx context.Context, pointID string) (string, error) {
			called = true
			return "", nil
		}},
		&mockCommentHop{fn: func(ctx context.Context, commentID string) (string, error) {
			called = true
			return "", nil
		}},
	)
	ctx := context.Background()

	for _, resolve := range []func() (string, error){
		func() (string, error) { return r.FromList(ctx, "") },
		func() (string, error) { return r.FromCard(ctx, "") },
		func() (string, error) { return r.FromChecklist(ctx, "") },
		func() (string, error) { return r.FromPoint(ctx, "") },
		func() (string, error) { return r.FromComment(ctx, "") },
	} {
		boardID, err := resolve()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if boardID != "" {
			t.Errorf("boardID = %q, want empty", boardID)
		}
	}

	if called {
		t.Error("empty id should not hit any hop")
	}
}

// TestResolver_HopError はホップのストレージエラーが呼び出し元に伝播することを検証する。
func TestResolver_HopError(t *testing.T) {
	hopErr := errors.New("db down")
	r := NewResolver(
		&mockListHop{fn: func(ctx context.Context, listID string) (string, error) {
			return "", hopErr
		}},
		&mockCardHop{fn: func(ctx context.Context, cardID string) (string, error) {
			return "l1", nil
		}},
		&mockChecklistHop{fn: func(ctx context.Context, checklistID string) (string, error) {
			return "", nil
		}},
		&mockPointHop{fn: func(ctx context.Context, pointID string) (string, error) {
			return "", nil
		}},
		&mockCommentHop{fn: func(ctx context.Context, commentID string) (string, error) {
			return "", nil
		}},
	)

	_, err := r.FromCard(context.Background(), "c1")
	if !errors.Is(err, hopErr) {
		t.Errorf("err = %v, want wrapped hop error", err)
	}
}
