package board

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/boardman/internal/model"
	"github.com/hitoshi/boardman/internal/repository"
)

// Credentials は操作呼び出し元の資格情報。パスワードは事前ハッシュ済みの値を想定する。
type Credentials struct {
	UserID   string
	Password string
}

// Sanitizer は利用者入力テキストのサニタイズインターフェース。
type Sanitizer interface {
	Sanitize(raw string) string
}

// MetricsRecorder はボード操作のメトリクス記録インターフェース。
type MetricsRecorder interface {
	RecordBoardSave(duration time.Duration)
	RecordBoardSaveFailure()
	RecordRowsUpserted(count int)
	RecordRowsSkipped(count int)
	RecordAuthDenied()
}

// Service はボード管理のサービス層。
// すべてのミューテーションは 入力検証 → 所属ボード解決 → 認証・認可 → 委譲 の順で処理する。
// 所属ボードはエンティティ自身のフィールド（あれば）か、Resolverの祖先チェーン解決で求める。
// 解決結果が空文字列の場合は「ボードが見つからない」ではなくメンバーシップ違反として扱う。
type Service struct {
	boardRepo     repository.BoardRepository
	listRepo      repository.ListRepository
	cardRepo      repository.CardRepository
	checklistRepo repository.ChecklistRepository
	pointRepo     repository.PointRepository
	commentRepo   repository.CommentRepository
	profileRepo   repository.ProfileRepository

	resolver   *Resolver
	authorizer *Authorizer
	sanitizer  Sanitizer
	metrics    MetricsRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
// sanitizerとmetricsはnil許容（nilの場合はサニタイズ・記録をスキップする）。
func NewService(
	boardRepo repository.BoardRepository,
	listRepo repository.ListRepository,
	cardRepo repository.CardRepository,
	checklistRepo repository.ChecklistRepository,
	pointRepo repository.PointRepository,
	commentRepo repository.CommentRepository,
	profileRepo repository.ProfileRepository,
	resolver *Resolver,
	authorizer *Authorizer,
	sanitizer Sanitizer,
	metrics MetricsRecorder,
) *Service {
	return &Service{
		boardRepo:     boardRepo,
		listRepo:      listRepo,
		cardRepo:      cardRepo,
		checklistRepo: checklistRepo,
		pointRepo:     pointRepo,
		commentRepo:   commentRepo,
		profileRepo:   profileRepo,
		resolver:      resolver,
		authorizer:    authorizer,
		sanitizer:     sanitizer,
		metrics:       metrics,
	}
}

// sanitize はsanitizerが設定されている場合のみテキストをサニタイズする。
func (s *Service) sanitize(raw string) string {
	if s.sanitizer == nil {
		return raw
	}
	return s.sanitizer.Sanitize(raw)
}

// authenticate は資格情報を検証し、拒否をメトリクスに記録する。
func (s *Service) authenticate(ctx context.Context, creds Credentials) error {
	if err := s.authorizer.Authenticate(ctx, creds.UserID, creds.Password); err != nil {
		s.recordDenial(err)
		return err
	}
	return nil
}

// authorizeMember はメンバーシップを検証し、拒否をメトリクスに記録する。
func (s *Service) authorizeMember(ctx context.Context, userID, boardID string) error {
	if err := s.authorizer.AuthorizeMember(ctx, userID, boardID); err != nil {
		s.recordDenial(err)
		return err
	}
	return nil
}

// recordDenial は認証・認可の拒否のみをカウントする。ストレージエラーは数えない。
func (s *Service) recordDenial(err error) {
	if s.metrics == nil {
		return
	}
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		s.metrics.RecordAuthDenied()
	}
}

// authorizeStoredParent は既存IDに対するcreate再送時の追加認可を行う。
// アップサートのID照合はボードをまたいで衝突しうるため、保存済みの行が
// 申告された親と別のボードに属する場合はそのボードのメンバーシップも要求する。
func (s *Service) authorizeStoredParent(ctx context.Context, userID, claimedBoardID, storedBoardID string) error {
	if storedBoardID == "" || storedBoardID == claimedBoardID {
		return nil
	}
	return s.authorizeMember(ctx, userID, storedBoardID)
}

// now は現在時刻のRFC3339文字列を返す。
func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// SaveBoard はボードとそのフラット部分木全体を保存する。
// 新規ボードはIDとcreatedをサーバー側で採番する。
// 既存ボードの場合は呼び出し元がそのボードのメンバーであることを要求する。
// カード説明とコメント本文は保存前にサニタイズされる。
func (s *Service) SaveBoard(ctx context.Context, creds Credentials, board *model.Board) (*repository.TreeSaveResult, error) {
	if board == nil || board.Name == "" {
		return nil, model.NewInvalidInputError("ボード名は必須です")
	}

	if err := s.authenticate(ctx, creds); err != nil {
		return nil, err
	}

	if board.ID == "" {
		board.ID = uuid.New().String()
	} else {
		// 既存判定はactiveを無視する。論理削除済みボードを未知IDと同一視すると、
		// 非メンバーがactive=trueで再保存して復活・乗っ取りできてしまう。
		ownerID, err := s.boardRepo.OwnerByID(ctx, board.ID)
		if err != nil {
			return nil, err
		}
		if ownerID != "" {
			if err := s.authorizeMember(ctx, creds.UserID, board.ID); err != nil {
				return nil, err
			}
			// 所有者は保存時に変更しない
			board.UserID = ownerID
		}
	}
	if board.Created == "" {
		board.Created = now()
	}
	if board.UserID == "" {
		board.UserID = creds.UserID
	}

	for i := range board.Cards {
		board.Cards[i].Description = s.sanitize(board.Cards[i].Description)
	}
	for i := range board.Points {
		board.Points[i].Description = s.sanitize(board.Points[i].Description)
	}
	for i := range board.Comments {
		board.Comments[i].Text = s.sanitize(board.Comments[i].Text)
	}

	start := time.Now()
	result, err := s.boardRepo.SaveTree(ctx, board)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordBoardSaveFailure()
		}
		return nil, fmt.Errorf("ボードの保存に失敗しました: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordBoardSave(time.Since(start))
		s.metrics.RecordRowsUpserted(result.Upserted)
		s.metrics.RecordRowsSkipped(result.Skipped)
	}

	return result, nil
}

// GetBoards は呼び出し元が所有するボード一覧（部分木なし）を返す。
func (s *Service) GetBoards(ctx context.Context, creds Credentials) ([]model.Board, error) {
	if err := s.authenticate(ctx, creds); err != nil {
		return nil, err
	}

	boards, err := s.boardRepo.ListByOwner(ctx, creds.UserID)
	if err != nil {
		return nil, fmt.Errorf("ボード一覧の取得に失敗しました: %w", err)
	}

	return boards, nil
}

// GetBoard はボードの部分木全体を組み立てて返す。
// リスト→カード→チェックリスト・コメント→項目の順に、各レベルを親IDの集合でまとめて読む。
func (s *Service) GetBoard(ctx context.Context, creds Credentials, boardID string) (*model.Board, error) {
	if boardID == "" {
		return nil, model.NewInvalidInputError("ボードIDは必須です")
	}

	if err := s.authenticate(ctx, creds); err != nil {
		return nil, err
	}
	if err := s.authorizeMember(ctx, creds.UserID, boardID); err != nil {
		return nil, err
	}

	board, err := s.boardRepo.FindByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if board.ID == "" {
		return nil, model.NewBoardNotFoundError(boardID)
	}

	lists, err := s.listRepo.ListByBoard(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("リストの取得に失敗しました: %w", err)
	}
	board.Lists = lists

	listIDs := make([]string, len(lists))
	for i, l := range lists {
		listIDs[i] = l.ID
	}

	cards, err := s.cardRepo.ListByLists(ctx, listIDs)
	if err != nil {
		return nil, fmt.Errorf("カードの取得に失敗しました: %w", err)
	}
	board.Cards = cards

	cardIDs := make([]string, len(cards))
	for i, c := range cards {
		cardIDs[i] = c.ID
	}

	checklists, err := s.checklistRepo.ListByCards(ctx, cardIDs)
	if err != nil {
		return nil, fmt.Errorf("チェックリストの取得に失敗しました: %w", err)
	}
	board.Checklists = checklists

	comments, err := s.commentRepo.ListByCards(ctx, cardIDs)
	if err != nil {
		return nil, fmt.Errorf("コメントの取得に失敗しました: %w", err)
	}
	board.Comments = comments

	checklistIDs := make([]string, len(checklists))
	for i, c := range checklists {
		checklistIDs[i] = c.ID
	}

	points, err := s.pointRepo.ListByChecklists(ctx, checklistIDs)
	if err != nil {
		return nil, fmt.Errorf("チェックリスト項目の取得に失敗しました: %w", err)
	}
	board.Points = points

	return &board, nil
}

// GetMembers はボードの全メンバーをプロフィール情報付きで返す。
// 呼び出し元自身がそのボードのメンバーであることを要求する。
func (s *Service) GetMembers(ctx context.Context, creds Credentials, boardID string) ([]model.BoardMember, error) {
	if boardID == "" {
		return nil, model.NewInvalidInputError("ボードIDは必須です")
	}

	if err := s.authenticate(ctx, creds); err != nil {
		return nil, err
	}
	if err := s.authorizeMember(ctx, creds.UserID, boardID); err != nil {
		return nil, err
	}

	members, err := s.boardRepo.ListMembers(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("メンバー一覧の取得に失敗しました: %w", err)
	}

	return members, nil
}

// AddMember はメールアドレスで指定されたプロフィールをボードのメンバーに追加する。
// 呼び出し元自身がそのボードのメンバーであることを要求する。
// メールアドレスが未登録の場合はPROFILE_NOT_FOUNDを返す。
func (s *Service) AddMember(ctx context.Context, creds Credentials, boardID, email string) error {
	if boardID == "" || email == "" {
		return model.NewInvalidInputError("ボードIDとメールアドレスは必須です")
	}

	if err := s.authenticate(ctx, creds); err != nil {
		return err
	}
	if err := s.authorizeMember(ctx, creds.UserID, boardID); err != nil {
		return err
	}

	targetID, err := s.profileRepo.FindIDByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("プロフィールの検索に失敗しました: %w", err)
	}
	if targetID == "" {
		return model.NewProfileNotFoundError(email)
	}

	if err := s.boardRepo.AddMember(ctx, boardID, targetID, now()); err != nil {
		return fmt.Errorf("メンバーの追加に失敗しました: %w", err)
	}

	return nil
}

// CreateList はリストを作成（または同一IDで再送時は置換）する。
// 所属ボードはリスト自身のboard_idで判定する。
func (s *Service) CreateList(ctx context.Context, creds Credentials, list *model.List) error {
	if list == nil || list.ID == "" || list.Name == "" || list.BoardID == "" {
		return model.NewInvalidInputError("リストのID・名前・ボードIDは必須です")
	}
	if list.Created == "" {
		list.Created = now()
	}

	if err := s.authenticate(ctx, creds); err != nil {
		return err
	}
	if err := s.authorizeMember(ctx, creds.UserID, list.BoardID); err != nil {
		return err
	}

	storedBoardID, err := s.resolver.FromList(ctx, list.ID)
	if err != nil {
		return err
	}
	if err := s.authorizeStoredParent(ctx, creds.UserID, list.BoardID, storedBoardID); err != nil {
		return err
	}

	if err := s.listRepo.Upsert(ctx, list); err != nil {
		return fmt.Errorf("リストの作成に失敗しました: %w", err)
	}

	return nil
}

// UpdateList は既存リストを更新し、影響行数を返す。
// activeフィールドの変更による論理削除・復元もここで行う。
func (s *Service) UpdateList(ctx context.Context, creds Credentials, list *model.List) (int64, error) {
	if list == nil || list.ID == "" || list.BoardID == "" {
		return 0, model.NewInvalidInputError("リストのIDとボードIDは必須です")
	}

	if err := s.authenticate(ctx, creds); err != nil {
		return 0, err
	}
	if err := s.authorizeMember(ctx, creds.UserID, list.BoardID); err != nil {
		return 0, err
	}

	affected, err := s.listRepo.Update(ctx, list)
	if err != nil {
		return 0, fmt.Errorf("リストの更新に失敗しました: %w", err)
	}

	return affected, nil
}

// CreateCard はカードを作成する。所属ボードはlist_idから祖先チェーンで解決する。
func (s *Service) CreateCard(ctx context.Context, creds Credentials, card *model.Card) error {
	if card == nil || card.ID == "" || card.Name == "" || card.ListID == "" {
		return model.NewInvalidInputError("カードのID・名前・リストIDは必須です")
	}
	if card.Created == "" {
		card.Created = now()
	}

	if err := s.authenticate(ctx, creds); err != nil {
		return err
	}

	boardID, err := s.resolver.FromList(ctx, card.ListID)
	if err != nil {
		return err
	}
	if err := s.authorizeMember(ctx, creds.UserID, boardID); err != nil {
		return err
	}

	storedBoardID, err := s.resolver.FromCard(ctx, card.ID)
	if err != nil {
		return err
	}
	if err := s.authorizeStoredParent(ctx, creds.UserID, boardID, storedBoardID); err != nil {
		return err
	}

	card.Description = s.sanitize(card.Description)

	if err := s.cardRepo.Upsert(ctx, card); err != nil {
		return fmt.Errorf("カードの作成に失敗しました: %w", err)
	}

	return nil
}

// UpdateCard は既存カードを更新し、影響行数を返す。
// 所属ボードは保存済みのカードIDから祖先チェーンで解決するため、
// list_idの差し替え（リスト間移動）を含む更新でも元のボードで認可される。
func (s *Service) UpdateCard(ctx context.Context, creds Credentials, card *model.Card) (int64, error) {
	if card == nil || card.ID == "" {
		return 0, model.NewInvalidInputError("カードのIDは必須です")
	}

	if err := s.authenticate(ctx, creds); err != nil {
		return 0, err
	}

	boardID, err := s.resolver.FromCard(ctx, card.ID)
	if err != nil {
		return 0, err
	}
	if err := s.authorizeMember(ctx, creds.UserID, boardID); err != nil {
		return 0, err
	}

	card.Description = s.sanitize(card.Description)

	affected, err := s.cardRepo.Update(ctx, card)
	if err != nil {
		return 0, fmt.Errorf("カードの更新に失敗しました: %w", err)
	}

	return affected, nil
}

// CreateChecklist はチェックリストを作成する。所属ボードはcard_idから解決する。
func (s *Service) CreateChecklist(ctx context.Context, creds Credentials, checklist *model.Checklist) error {
	if checklist == nil || checklist.ID == "" || checklist.Name == "" || checklist.CardID == "" {
		return model.NewInvalidInputError("チェックリストのID・名前・カードIDは必須です")
	}
	if checklist.Created == "" {
		checklist.Created = now()
	}

	if err := s.authenticate(ctx, creds); err != nil {
		return err
	}

	boardID, err := s.resolver.FromCard(ctx, checklist.CardID)
	if err != nil {
		return err
	}
	if err := s.authorizeMember(ctx, creds.UserID, boardID); err != nil {
		return err
	}

	storedBoardID, err := s.resolver.FromChecklist(ctx, checklist.ID)
	if err != nil {
		return err
	}
	if err := s.authorizeStoredParent(ctx, creds.UserID, boardID, storedBoardID); err != nil {
		return err
	}

	if err := s.checklistRepo.Upsert(ctx, checklist); err != nil {
		return fmt.Errorf("チェックリストの作成に失敗しました: %w", err)
	}

	return nil
}

// UpdateChecklist は既存チェックリストを更新し、影響行数を返す。
func (s *Service) UpdateChecklist(ctx context.Context, creds Credentials, checklist *model.Checklist) (int64, error) {
	if checklist == nil || checklist.ID == "" {
		return 0, model.NewInvalidInputError("チェックリストのIDは必須です")
	}

	if err := s.authenticate(ctx, creds); err != nil {
		return 0, err
	}

	boardID, err := s.resolver.FromChecklist(ctx, checklist.ID)
	if err != nil {
		return 0, err
	}
	if err := s.authorizeMember(ctx, creds.UserID, boardID); err != nil {
		return 0, err
	}

	affected, err := s.checklistRepo.Update(ctx, checklist)
	if err != nil {
		return 0, fmt.Errorf("チェックリストの更新に失敗しました: %w", err)
	}

	return affected, nil
}

// CreatePoint はチェックリスト項目を作成する。所属ボードはchecklist_idから解決する。
func (s *Service) CreatePoint(ctx context.Context, creds Credentials, point *model.ChecklistPoint) error {
	if point == nil || point.ID == "" || point.Description == "" || point.ChecklistID == "" {
		return model.NewInvalidInputError("項目のID・説明・チェックリストIDは必須です")
	}
	if point.Created == "" {
		point.Created = now()
	}

	if err := s.authenticate(ctx, creds); err != nil {
		return err
	}

	boardID, err := s.resolver.FromChecklist(ctx, point.ChecklistID)
	if err != nil {
		return err
	}
	if err := s.authorizeMember(ctx, creds.UserID, boardID); err != nil {
		return err
	}

	storedBoardID, err := s.resolver.FromPoint(ctx, point.ID)
	if err != nil {
		return err
	}
	if err := s.authorizeStoredParent(ctx, creds.UserID, boardID, storedBoardID); err != nil {
		return err
	}

	point.Description = s.sanitize(point.Description)

	if err := s.pointRepo.Upsert(ctx, point); err != nil {
		return fmt.Errorf("項目の作成に失敗しました: %w", err)
	}

	return nil
}

// UpdatePoint は既存項目を更新し、影響行数を返す。checkedトグルもここで反映される。
func (s *Service) UpdatePoint(ctx context.Context, creds Credentials, point *model.ChecklistPoint) (int64, error) {
	if point == nil || point.ID == "" {
		return 0, model.NewInvalidInputError("項目のIDは必須です")
	}

	if err := s.authenticate(ctx, creds); err != nil {
		return 0, err
	}

	boardID, err := s.resolver.FromPoint(ctx, point.ID)
	if err != nil {
		return 0, err
	}
	if err := s.authorizeMember(ctx, creds.UserID, boardID); err != nil {
		return 0, err
	}

	point.Description = s.sanitize(point.Description)

	affected, err := s.pointRepo.Update(ctx, point)
	if err != nil {
		return 0, fmt.Errorf("項目の更新に失敗しました: %w", err)
	}

	return affected, nil
}

// CreateComment はコメントを作成する。所属ボードはcard_idから解決する。
// 投稿者が未指定の場合は呼び出し元を投稿者とする。
func (s *Service) CreateComment(ctx context.Context, creds Credentials, comment *model.Comment) error {
	if comment == nil || comment.ID == "" || comment.Text == "" || comment.CardID == "" {
		return model.NewInvalidInputError("コメントのID・本文・カードIDは必須です")
	}
	if comment.Created == "" {
		comment.Created = now()
	}
	if comment.UserID == "" {
		comment.UserID = creds.UserID
	}

	if err := s.authenticate(ctx, creds); err != nil {
		return err
	}

	boardID, err := s.resolver.FromCard(ctx, comment.CardID)
	if err != nil {
		return err
	}
	if err := s.authorizeMember(ctx, creds.UserID, boardID); err != nil {
		return err
	}

	storedBoardID, err := s.resolver.FromComment(ctx, comment.ID)
	if err != nil {
		return err
	}
	if err := s.authorizeStoredParent(ctx, creds.UserID, boardID, storedBoardID); err != nil {
		return err
	}

	comment.Text = s.sanitize(comment.Text)

	if err := s.commentRepo.Upsert(ctx, comment); err != nil {
		return fmt.Errorf("コメントの作成に失敗しました: %w", err)
	}

	return nil
}

// UpdateComment は既存コメントを更新し、影響行数を返す。
func (s *Service) UpdateComment(ctx context.Context, creds Credentials, comment *model.Comment) (int64, error) {
	if comment == nil || comment.ID == "" {
		return 0, model.NewInvalidInputError("コメントのIDは必須です")
	}

	if err := s.authenticate(ctx, creds); err != nil {
		return 0, err
	}

	boardID, err := s.resolver.FromComment(ctx, comment.ID)
	if err != nil {
		return 0, err
	}
	if err := s.authorizeMember(ctx, creds.UserID, boardID); err != nil {
		return 0, err
	}

	comment.Text = s.sanitize(comment.Text)

	affected, err := s.commentRepo.Update(ctx, comment)
	if err != nil {
		return 0, fmt.Errorf("コメントの更新に失敗しました: %w", err)
	}

	return affected, nil
}
