package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"interview-prep-service/internal/app"
	"interview-prep-service/internal/domain"
)

// QuestionRepository caches each locale's collection in Redis and falls back to a loader on cache miss.
// Questions are stored as: SET questions:{locale} <json array>
// Home pages are stored as: SET home:{locale} <json object>
type QuestionRepository struct {
	client *redis.Client
	loader app.QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex
}

func NewQuestionRepository(client *redis.Client, loader app.QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuestionRepository) Questions(ctx context.Context, locale domain.Locale) ([]domain.Question, error) {
	if _, err := domain.ParseLocale(string(locale)); err != nil {
		return nil, err
	}
	key := r.questionsKey(locale)

	var cached []domain.Question
	if r.readCache(ctx, key, &cached) {
		return cached, nil
	}

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		var cached []domain.Question
		if r.readCache(ctx, key, &cached) {
			return cached, nil
		}

		questions, err := r.loader.LoadQuestions(ctx, locale)
		if err != nil {
			return nil, err
		}
		if questions == nil {
			questions = []domain.Question{}
		}
		domain.SortQuestions(questions)
		r.writeCache(ctx, key, questions)
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (r *QuestionRepository) Home(ctx context.Context, locale domain.Locale) (domain.HomeContent, error) {
	if _, err := domain.ParseLocale(string(locale)); err != nil {
		return domain.HomeContent{}, err
	}
	key := r.homeKey(locale)

	var cached domain.HomeContent
	if r.readCache(ctx, key, &cached) {
		return cached, nil
	}

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		home, err := r.loader.LoadHome(ctx, locale)
		if err != nil {
			return domain.HomeContent{}, err
		}
		r.writeCache(ctx, key, home)
		return home, nil
	})
	if err != nil {
		return domain.HomeContent{}, err
	}
	return result.(domain.HomeContent), nil
}

func (r *QuestionRepository) readCache(ctx context.Context, key string, dst any) bool {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil || len(raw) == 0 {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

// writeCache is best-effort; a failed write only costs a reload.
func (r *QuestionRepository) writeCache(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = r.client.Set(ctx, key, data, r.ttlWithJitter()).Err()
}

func (r *QuestionRepository) questionsKey(locale domain.Locale) string {
	return "questions:" + string(locale)
}

func (r *QuestionRepository) homeKey(locale domain.Locale) string {
	return "home:" + string(locale)
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
