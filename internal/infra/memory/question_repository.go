package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"interview-prep-service/internal/app"
	"interview-prep-service/internal/domain"
)

// QuestionRepository caches each locale's collection with a TTL to avoid reloading content.
type QuestionRepository struct {
	loader app.QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[domain.Locale]cachedCollection
}

type cachedCollection struct {
	questions []domain.Question
	expiresAt time.Time
}

func NewQuestionRepository(loader app.QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[domain.Locale]cachedCollection),
	}
}

// Questions returns the locale's questions sorted by numeric id.
func (r *QuestionRepository) Questions(ctx context.Context, locale domain.Locale) ([]domain.Question, error) {
	if _, err := domain.ParseLocale(string(locale)); err != nil {
		return nil, err
	}
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.cache[locale]; ok && entry.questions != nil && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry.questions, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do("questions:"+string(locale), func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[locale]; ok && entry.questions != nil && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry.questions, nil
		}
		r.mu.RUnlock()

		questions, err := r.loader.LoadQuestions(ctx, locale)
		if err != nil {
			return nil, err
		}
		if questions == nil {
			questions = []domain.Question{}
		}
		domain.SortQuestions(questions)

		r.mu.Lock()
		r.cache[locale] = cachedCollection{
			questions: questions,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

// Home returns the locale's landing page record. It is loaded on demand and not cached.
func (r *QuestionRepository) Home(ctx context.Context, locale domain.Locale) (domain.HomeContent, error) {
	if _, err := domain.ParseLocale(string(locale)); err != nil {
		return domain.HomeContent{}, err
	}
	result, err, _ := r.sf.Do("home:"+string(locale), func() (interface{}, error) {
		return r.loader.LoadHome(ctx, locale)
	})
	if err != nil {
		return domain.HomeContent{}, err
	}
	return result.(domain.HomeContent), nil
}

// StaticQuestionLoader is a simple loader backed by in-memory collections (useful for tests/demos).
type StaticQuestionLoader struct {
	questions map[domain.Locale][]domain.Question
	home      map[domain.Locale]domain.HomeContent
}

func NewStaticQuestionLoader(questions map[domain.Locale][]domain.Question, home map[domain.Locale]domain.HomeContent) *StaticQuestionLoader {
	return &StaticQuestionLoader{questions: questions, home: home}
}

func (l *StaticQuestionLoader) LoadQuestions(_ context.Context, locale domain.Locale) ([]domain.Question, error) {
	questions := append([]domain.Question{}, l.questions[locale]...)
	return questions, nil
}

func (l *StaticQuestionLoader) LoadHome(_ context.Context, locale domain.Locale) (domain.HomeContent, error) {
	if home, ok := l.home[locale]; ok {
		return home, nil
	}
	return domain.HomeContent{}, domain.ErrHomeNotFound
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
