package generation

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/gabigoranov/Study-Platform-sub000/application/ports"
	"github.com/gabigoranov/Study-Platform-sub000/domain/drafts"
	pkgerrors "github.com/gabigoranov/Study-Platform-sub000/pkg/errors"
)

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) UploadFile(ctx context.Context, userID, filename string, content io.Reader) (string, error) {
	args := m.Called(ctx, userID, filename, content)
	return args.String(0), args.Error(1)
}

func (m *mockStorage) ListFiles(ctx context.Context, userID string) ([]ports.StoredFile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.StoredFile), args.Error(1)
}

func (m *mockStorage) DeleteFile(ctx context.Context, userID, filename string) error {
	args := m.Called(ctx, userID, filename)
	return args.Error(0)
}

type mockGenerationAPI struct {
	mock.Mock
}

func (m *mockGenerationAPI) GenerateFlashcards(ctx context.Context, token string, req ports.GenerationRequest) ([]drafts.FlashcardItem, error) {
	args := m.Called(ctx, token, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]drafts.FlashcardItem), args.Error(1)
}

func (m *mockGenerationAPI) GenerateMindmap(ctx context.Context, token string, req ports.GenerationRequest) (drafts.MindmapDraft, error) {
	args := m.Called(ctx, token, req)
	return args.Get(0).(drafts.MindmapDraft), args.Error(1)
}

func (m *mockGenerationAPI) GenerateQuiz(ctx context.Context, token string, req ports.GenerationRequest) (drafts.QuizDraft, error) {
	args := m.Called(ctx, token, req)
	return args.Get(0).(drafts.QuizDraft), args.Error(1)
}

type mockPersistence struct {
	mock.Mock
}

func (m *mockPersistence) CreateFlashcardsBulk(ctx context.Context, token string, reqs []ports.CreateFlashcardRequest) ([]ports.PersistedFlashcard, error) {
	args := m.Called(ctx, token, reqs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.PersistedFlashcard), args.Error(1)
}

func (m *mockPersistence) CreateMindmap(ctx context.Context, token string, req ports.CreateMindmapRequest) (ports.PersistedMindmap, error) {
	args := m.Called(ctx, token, req)
	return args.Get(0).(ports.PersistedMindmap), args.Error(1)
}

func (m *mockPersistence) CreateQuiz(ctx context.Context, token string, req ports.CreateQuizRequest) (ports.PersistedQuiz, error) {
	args := m.Called(ctx, token, req)
	return args.Get(0).(ports.PersistedQuiz), args.Error(1)
}

func (m *mockPersistence) UpdateScore(ctx context.Context, token string, delta int) error {
	args := m.Called(ctx, token, delta)
	return args.Error(0)
}

func newTestClient(storage *mockStorage, api *mockGenerationAPI, persistence *mockPersistence) *Client {
	return NewClient(storage, api, persistence, zap.NewNop())
}

func TestClient_Upload_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	storage := new(mockStorage)
	doc := SourceDocument{Name: "notes.pdf", Size: 1024, Content: strings.NewReader("content")}
	storage.On("UploadFile", ctx, "user123", "notes.pdf", doc.Content).
		Return("https://cdn.example.com/user123/notes.pdf", nil)

	client := newTestClient(storage, new(mockGenerationAPI), new(mockPersistence))

	// Act
	url, err := client.Upload(ctx, "user123", doc)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/user123/notes.pdf", url)
	storage.AssertExpectations(t)
}

func TestClient_Upload_StorageFailure(t *testing.T) {
	ctx := context.Background()
	storage := new(mockStorage)
	doc := SourceDocument{Name: "notes.pdf", Size: 1024, Content: strings.NewReader("content")}
	storage.On("UploadFile", ctx, "user123", "notes.pdf", doc.Content).
		Return("", errors.New("bucket unavailable"))

	client := newTestClient(storage, new(mockGenerationAPI), new(mockPersistence))

	url, err := client.Upload(ctx, "user123", doc)

	assert.Error(t, err)
	assert.Empty(t, url)
	assert.True(t, pkgerrors.IsUploadFailed(err))
}

func TestClient_Upload_MissingContent(t *testing.T) {
	client := newTestClient(new(mockStorage), new(mockGenerationAPI), new(mockPersistence))

	_, err := client.Upload(context.Background(), "user123", SourceDocument{Name: "notes.pdf"})

	assert.Error(t, err)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeValidation))
}

func TestClient_Generate_FlashcardsStampsGroupID(t *testing.T) {
	// Arrange
	ctx := context.Background()
	api := new(mockGenerationAPI)
	persistence := new(mockPersistence)
	req := ports.GenerationRequest{FileDownloadURL: "https://cdn.example.com/f.pdf", CustomPrompt: "focus on chapter 2"}
	api.On("GenerateFlashcards", ctx, "token", req).Return([]drafts.FlashcardItem{
		{Title: "Card 1", Front: "Q1", Back: "A1"},
		{Title: "Card 2", Front: "Q2", Back: "A2", GroupID: "stale"},
	}, nil)
	persistence.On("UpdateScore", ctx, "token", 20).Return(nil)

	client := newTestClient(new(mockStorage), api, persistence)

	// Act
	draft, err := client.Generate(ctx, "token", drafts.KindFlashcards, req.FileDownloadURL, req.CustomPrompt, "group-7")

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, drafts.KindFlashcards, draft.Kind)
	assert.Len(t, draft.Flashcards, 2)
	for _, item := range draft.Flashcards {
		assert.Equal(t, "group-7", item.GroupID)
	}
	persistence.AssertExpectations(t)
}

func TestClient_Generate_MindmapStampsGroupID(t *testing.T) {
	ctx := context.Background()
	api := new(mockGenerationAPI)
	persistence := new(mockPersistence)
	req := ports.GenerationRequest{FileDownloadURL: "https://cdn.example.com/f.pdf"}
	api.On("GenerateMindmap", ctx, "token", req).Return(drafts.MindmapDraft{Title: "Biology"}, nil)
	persistence.On("UpdateScore", ctx, "token", 20).Return(nil)

	client := newTestClient(new(mockStorage), api, persistence)

	draft, err := client.Generate(ctx, "token", drafts.KindMindmap, req.FileDownloadURL, "", "group-9")

	assert.NoError(t, err)
	assert.Equal(t, drafts.KindMindmap, draft.Kind)
	assert.Equal(t, "group-9", draft.Mindmap.GroupID)
}

func TestClient_Generate_FailureIsWrapped(t *testing.T) {
	ctx := context.Background()
	api := new(mockGenerationAPI)
	api.On("GenerateQuiz", ctx, "token", mock.Anything).
		Return(drafts.QuizDraft{}, errors.New("upstream timeout"))

	client := newTestClient(new(mockStorage), api, new(mockPersistence))

	_, err := client.Generate(ctx, "token", drafts.KindQuiz, "https://cdn.example.com/f.pdf", "", "group-1")

	assert.Error(t, err)
	assert.True(t, pkgerrors.IsGenerationFailed(err))
}

func TestClient_Generate_ScoreBumpFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	api := new(mockGenerationAPI)
	persistence := new(mockPersistence)
	api.On("GenerateFlashcards", ctx, "token", mock.Anything).
		Return([]drafts.FlashcardItem{{Title: "Card", Front: "Q", Back: "A"}}, nil)
	persistence.On("UpdateScore", ctx, "token", 20).Return(errors.New("score service down"))

	client := newTestClient(new(mockStorage), api, persistence)

	draft, err := client.Generate(ctx, "token", drafts.KindFlashcards, "https://cdn.example.com/f.pdf", "", "group-1")

	assert.NoError(t, err)
	assert.Equal(t, 1, draft.ItemCount())
}

func TestClient_Generate_RejectsConcurrentCalls(t *testing.T) {
	ctx := context.Background()
	api := new(mockGenerationAPI)
	persistence := new(mockPersistence)

	started := make(chan struct{})
	release := make(chan struct{})
	api.On("GenerateFlashcards", ctx, "token", mock.Anything).
		Run(func(args mock.Arguments) {
			close(started)
			<-release
		}).
		Return([]drafts.FlashcardItem{{Title: "Card", Front: "Q", Back: "A"}}, nil)
	persistence.On("UpdateScore", ctx, "token", 20).Return(nil)

	client := newTestClient(new(mockStorage), api, persistence)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := client.Generate(ctx, "token", drafts.KindFlashcards, "url", "", "group-1")
		assert.NoError(t, err)
	}()

	<-started
	_, err := client.Generate(ctx, "token", drafts.KindFlashcards, "url", "", "group-1")
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeConflict))

	close(release)
	wg.Wait()
}

func TestClient_Generate_UnknownKind(t *testing.T) {
	client := newTestClient(new(mockStorage), new(mockGenerationAPI), new(mockPersistence))

	_, err := client.Generate(context.Background(), "token", drafts.DraftKind("poster"), "url", "", "group-1")

	assert.Error(t, err)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeValidation))
}
