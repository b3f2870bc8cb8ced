package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
	"interview-prep-service/internal/domain"
)

const homeFile = "index.md"

var frontMatterDelim = []byte("---")

type questionFrontMatter struct {
	ID         string   `yaml:"id"`
	Title      string   `yaml:"title"`
	Slug       string   `yaml:"slug"`
	Category   string   `yaml:"category"`
	Difficulty string   `yaml:"difficulty"`
	Tags       []string `yaml:"tags"`
}

type homeFrontMatter struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// MarkdownLoader reads questions from <dir>/<locale>/**/*.md. Each file starts with a YAML
// front matter block; <dir>/<locale>/index.md is the landing page.
type MarkdownLoader struct {
	dir      string
	log      logrus.FieldLogger
	validate *validator.Validate
}

func NewMarkdownLoader(dir string, log logrus.FieldLogger) *MarkdownLoader {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &MarkdownLoader{
		dir:      dir,
		log:      log.WithField("component", "content"),
		validate: NewValidator(),
	}
}

// NewValidator returns a validator that knows the "category" tag used by domain.QuestionMeta.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return domain.Category(fl.Field().String()).Valid()
	})
	return v
}

func (l *MarkdownLoader) LoadQuestions(ctx context.Context, locale domain.Locale) ([]domain.Question, error) {
	if _, err := domain.ParseLocale(string(locale)); err != nil {
		return nil, err
	}
	root := filepath.Join(l.dir, string(locale))
	questions := []domain.Question{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || filepath.Ext(path) != ".md" {
			return nil
		}
		rel, _ := filepath.Rel(root, path)
		if rel == homeFile {
			return nil
		}
		q, err := l.parseQuestion(path, filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		q.Locale = locale
		questions = append(questions, q)
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		l.log.WithField("locale", locale).Warn("no content directory for locale")
		return questions, nil
	}
	if err != nil {
		return nil, err
	}

	domain.SortQuestions(questions)
	l.log.WithFields(logrus.Fields{"locale": locale, "count": len(questions)}).Debug("loaded questions")
	return questions, nil
}

func (l *MarkdownLoader) LoadHome(ctx context.Context, locale domain.Locale) (domain.HomeContent, error) {
	if _, err := domain.ParseLocale(string(locale)); err != nil {
		return domain.HomeContent{}, err
	}
	raw, err := os.ReadFile(filepath.Join(l.dir, string(locale), homeFile))
	if errors.Is(err, fs.ErrNotExist) {
		return domain.HomeContent{}, domain.ErrHomeNotFound
	}
	if err != nil {
		return domain.HomeContent{}, err
	}
	var fm homeFrontMatter
	body, err := splitFrontMatter(raw, &fm)
	if err != nil {
		return domain.HomeContent{}, fmt.Errorf("%s: %w", homeFile, err)
	}
	return domain.HomeContent{
		Locale:      locale,
		Title:       fm.Title,
		Description: fm.Description,
		Body:        body,
	}, nil
}

func (l *MarkdownLoader) parseQuestion(path, rel string) (domain.Question, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.Question{}, err
	}
	var fm questionFrontMatter
	body, err := splitFrontMatter(raw, &fm)
	if err != nil {
		return domain.Question{}, fmt.Errorf("%s: %w: %v", rel, domain.ErrInvalidQuestion, err)
	}
	if fm.ID == "" {
		fm.ID = leadingDigits(filepath.Base(path))
	}

	q := domain.Question{
		ID: domain.QuestionID(fm.ID),
		Meta: domain.QuestionMeta{
			Title:      fm.Title,
			Slug:       fm.Slug,
			Category:   domain.Category(fm.Category),
			Difficulty: domain.Difficulty(fm.Difficulty),
			Tags:       fm.Tags,
		},
		Path: rel,
		Body: body,
	}
	if q.Meta.Slug == "" {
		q.Meta.Slug = strings.TrimSuffix(filepath.Base(path), ".md")
	}
	if err := l.validate.Struct(q); err != nil {
		return domain.Question{}, fmt.Errorf("%s: %w: %v", rel, domain.ErrInvalidQuestion, err)
	}
	return q, nil
}

// splitFrontMatter decodes the leading "---" block into dst and returns the trimmed body.
func splitFrontMatter(raw []byte, dst any) (string, error) {
	raw = bytes.TrimPrefix(raw, []byte("\ufeff"))
	if !bytes.HasPrefix(raw, frontMatterDelim) {
		return strings.TrimSpace(string(raw)), nil
	}
	rest := raw[len(frontMatterDelim):]
	end := bytes.Index(rest, append([]byte("\n"), frontMatterDelim...))
	if end < 0 {
		return "", errors.New("unterminated front matter")
	}
	if err := yaml.Unmarshal(rest[:end], dst); err != nil {
		return "", fmt.Errorf("front matter: %w", err)
	}
	body := rest[end+1+len(frontMatterDelim):]
	return strings.TrimSpace(string(body)), nil
}

func leadingDigits(name string) string {
	i := 0
	for i < len(name) && name[i] >= '0' && name[i] <= '9' {
		i++
	}
	return name[:i]
}
