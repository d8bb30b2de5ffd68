package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pairforge/pairforge-backend/internal/clients/pinecone"
	"github.com/pairforge/pairforge-backend/internal/pkg/logger"
	"github.com/pairforge/pairforge-backend/internal/repos"
	"github.com/pairforge/pairforge-backend/internal/types"
)

func testLogger(t interface{ Fatalf(string, ...interface{}) }) *logger.Logger {
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

type fakeUserRepo struct {
	users map[uuid.UUID]*types.User
	err   error
}

func (f *fakeUserRepo) GetByID(_ context.Context, _ *gorm.DB, userID uuid.UUID) (*types.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users[userID], nil
}

func (f *fakeUserRepo) GetByIDs(_ context.Context, _ *gorm.DB, userIDs []uuid.UUID) ([]*types.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*types.User
	for _, id := range userIDs {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) ListActiveOnboarded(_ context.Context, _ *gorm.DB, activeSince time.Time) ([]*types.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*types.User
	for _, u := range f.users {
		if u.OnboardingCompleted && u.LastActiveAt != nil && !u.LastActiveAt.Before(activeSince) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) TouchLastActive(context.Context, *gorm.DB, uuid.UUID, time.Time) error {
	return f.err
}

func (f *fakeUserRepo) SetOnboardingCompleted(context.Context, *gorm.DB, uuid.UUID, bool) error {
	return f.err
}

type fakeProfileRepo struct {
	profiles map[uuid.UUID]*types.Profile
	err      error
}

func (f *fakeProfileRepo) GetByUserID(_ context.Context, _ *gorm.DB, userID uuid.UUID) (*types.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.profiles[userID], nil
}

func (f *fakeProfileRepo) GetByUserIDs(_ context.Context, _ *gorm.DB, userIDs []uuid.UUID) ([]*types.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*types.Profile
	for _, id := range userIDs {
		if p, ok := f.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProfileRepo) Upsert(_ context.Context, _ *gorm.DB, profile *types.Profile) error {
	if f.err != nil {
		return f.err
	}
	if f.profiles == nil {
		f.profiles = make(map[uuid.UUID]*types.Profile)
	}
	f.profiles[profile.UserID] = profile
	return nil
}

func (f *fakeProfileRepo) SetEmbeddingID(_ context.Context, _ *gorm.DB, profileID, userID uuid.UUID, embeddingID string) error {
	if f.err != nil {
		return f.err
	}
	if p, ok := f.profiles[userID]; ok && p.ID == profileID {
		p.EmbeddingID = embeddingID
	}
	return nil
}

type fakeMatchRepo struct {
	matches      []*types.Match
	createdSince int64
	upserted     []*types.Match
	contacted    []uuid.UUID
	err          error
}

func (f *fakeMatchRepo) ListByUserID(_ context.Context, _ *gorm.DB, userID uuid.UUID, _ repos.MatchListFilter) ([]*types.Match, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*types.Match
	for _, m := range f.matches {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMatchRepo) GetByID(_ context.Context, _ *gorm.DB, matchID uuid.UUID) (*types.Match, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, m := range f.matches {
		if m.ID == matchID {
			return m, nil
		}
	}
	return nil, nil
}

func (f *fakeMatchRepo) CountCreatedSince(context.Context, *gorm.DB, uuid.UUID, time.Time) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.createdSince, nil
}

func (f *fakeMatchRepo) UpsertSuggested(_ context.Context, _ *gorm.DB, matches []*types.Match) error {
	if f.err != nil {
		return f.err
	}
	f.upserted = append(f.upserted, matches...)
	return nil
}

func (f *fakeMatchRepo) MarkContacted(_ context.Context, _ *gorm.DB, matchID uuid.UUID, _ time.Time) error {
	if f.err != nil {
		return f.err
	}
	f.contacted = append(f.contacted, matchID)
	return nil
}

type fakeMessageRepo struct {
	messages []*types.Message
	err      error
}

func (f *fakeMessageRepo) Create(_ context.Context, _ *gorm.DB, message *types.Message) (*types.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	f.messages = append(f.messages, message)
	return message, nil
}

func (f *fakeMessageRepo) ListByMatchID(_ context.Context, _ *gorm.DB, matchID uuid.UUID) ([]*types.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*types.Message
	for _, m := range f.messages {
		if m.MatchID == matchID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeVectorStore struct {
	hits     []pinecone.SimilarityHit
	upserted []string
	err      error
}

func (f *fakeVectorStore) UpsertProfileVector(_ context.Context, embeddingID string, _ []float32, _, _ uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	f.upserted = append(f.upserted, embeddingID)
	return nil
}

func (f *fakeVectorStore) QuerySimilar(context.Context, string, int, uuid.UUID) ([]pinecone.SimilarityHit, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.hits, nil
}

type fakeOpenAI struct {
	vectors  [][]float32
	response map[string]any
	err      error
}

func (f *fakeOpenAI) Embed(_ context.Context, inputs []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.vectors != nil {
		return f.vectors, nil
	}
	out := make([][]float32, len(inputs))
	for i := range out {
		out[i] = []float32{0.1, 0.2, 0.3}
	}
	return out, nil
}

func (f *fakeOpenAI) GenerateJSON(context.Context, string, string, string, map[string]any) (map[string]any, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

type fakeExplainer struct {
	reasons types.MatchReasons
	calls   int
}

func (f *fakeExplainer) Explain(context.Context, *types.Profile, *types.Profile, string, int) *types.MatchReasons {
	f.calls++
	reasons := f.reasons
	return &reasons
}

func boolPtr(b bool) *bool           { return &b }
func intPtr(n int) *int              { return &n }
func strPtr(s string) *string        { return &s }
func timePtr(t time.Time) *time.Time { return &t }
