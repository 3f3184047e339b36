package handlers

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/traduz/apiserver/internal/auth"
	"github.com/traduz/apiserver/internal/services"
	"github.com/traduz/apiserver/internal/store"
	"github.com/traduz/apiserver/internal/translator"
	"github.com/traduz/apiserver/types"
)

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[int]types.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int]types.User{}}
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r *fakeUserRepo) Create(ctx context.Context, user types.User) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return types.User{}, store.ErrDuplicateEmail
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = user
	return user, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user types.User) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return types.User{}, store.ErrNotFound
	}
	for id, existing := range r.users {
		if id != user.ID && existing.Email == user.Email {
			return types.User{}, store.ErrDuplicateEmail
		}
	}
	user.UpdatedAt = time.Now()
	r.users[user.ID] = user
	return user, nil
}

func (r *fakeUserRepo) delete(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
}

type fakeTranslationRepo struct {
	mu           sync.Mutex
	nextID       int
	translations map[int]types.Translation
}

func newFakeTranslationRepo() *fakeTranslationRepo {
	return &fakeTranslationRepo{translations: map[int]types.Translation{}}
}

func (r *fakeTranslationRepo) Create(ctx context.Context, translation types.Translation) (types.Translation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	translation.ID = r.nextID
	if translation.CreatedAt.IsZero() {
		translation.CreatedAt = time.Now()
	}
	r.translations[translation.ID] = translation
	return translation, nil
}

func (r *fakeTranslationRepo) ListByUser(ctx context.Context, userID int) ([]types.Translation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []types.Translation{}
	for _, t := range r.translations {
		if t.UserID == userID {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (r *fakeTranslationRepo) Delete(ctx context.Context, userID, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.translations[id]
	if !ok || t.UserID != userID {
		return store.ErrNotFound
	}
	delete(r.translations, id)
	return nil
}

func (r *fakeTranslationRepo) DeleteAllByUser(ctx context.Context, userID int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for id, t := range r.translations {
		if t.UserID == userID {
			delete(r.translations, id)
			deleted++
		}
	}
	return deleted, nil
}

type fakeTranslator struct {
	result    translator.Result
	detection translator.Detection
	err       error
}

func (f *fakeTranslator) Translate(ctx context.Context, text, source, target string) (translator.Result, error) {
	if f.err != nil {
		return translator.Result{}, f.err
	}
	return f.result, nil
}

func (f *fakeTranslator) Detect(ctx context.Context, text string) (translator.Detection, error) {
	if f.err != nil {
		return translator.Detection{}, f.err
	}
	return f.detection, nil
}

type testEnv struct {
	router       *chi.Mux
	userRepo     *fakeUserRepo
	trRepo       *fakeTranslationRepo
	translator   *fakeTranslator
	tokens       *auth.TokenService
	users        *services.UserService
	translations *services.TranslationService
}

// newTestEnv wires the full route tree over in-memory fakes, mirroring
// the server package's layout.
func newTestEnv() *testEnv {
	userRepo := newFakeUserRepo()
	trRepo := newFakeTranslationRepo()
	fakeTr := &fakeTranslator{}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := auth.NewTokenService("test-secret", time.Hour)
	users := services.NewUserService(userRepo)
	translations := services.NewTranslationService(trRepo, fakeTr, nil, logger)

	router := chi.NewRouter()
	router.Get("/health", Health)
	router.Route("/api", func(r chi.Router) {
		AuthRouter(r, users, tokens, logger)

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(tokens, users, logger))
			ProfileRouter(r, users, logger)
			TranslationRouter(r, translations, logger)
		})
	})

	return &testEnv{
		router:       router,
		userRepo:     userRepo,
		trRepo:       trRepo,
		translator:   fakeTr,
		tokens:       tokens,
		users:        users,
		translations: translations,
	}
}
