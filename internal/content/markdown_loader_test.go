package content

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"interview-prep-service/internal/domain"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadQuestionsParsesFrontMatter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "fr", "javascript", "10-hoisting.md"), `---
id: 10
title: "Qu'est-ce que le hoisting ?"
slug: hoisting
category: javascript
difficulty: easy
tags: [scope, variables]
---

Le **hoisting** remonte les déclarations.
`)
	writeFile(t, filepath.Join(dir, "fr", "css", "2-box-model.md"), `---
title: Le modèle de boîte
category: css
---
Contenu.
`)
	writeFile(t, filepath.Join(dir, "fr", "index.md"), `---
title: Questions d'entretien
description: Réviser le front-end
---
Bienvenue.
`)
	writeFile(t, filepath.Join(dir, "fr", "notes.txt"), "ignored")

	loader := NewMarkdownLoader(dir, nil)
	questions, err := loader.LoadQuestions(context.Background(), domain.LocaleFR)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}

	first := questions[0]
	if first.ID != "2" || first.Meta.Slug != "2-box-model" || first.Path != "css/2-box-model.md" || first.Body != "Contenu." {
		t.Fatalf("unexpected first question %+v", first)
	}
	second := questions[1]
	if second.ID != "10" || second.Meta.Difficulty != domain.DifficultyEasy || second.Locale != domain.LocaleFR {
		t.Fatalf("unexpected second question %+v", second)
	}
	if !reflect.DeepEqual(second.Meta.Tags, []string{"scope", "variables"}) {
		t.Fatalf("unexpected tags %v", second.Meta.Tags)
	}
	if second.Body != "Le **hoisting** remonte les déclarations." {
		t.Fatalf("unexpected body %q", second.Body)
	}

	home, err := loader.LoadHome(context.Background(), domain.LocaleFR)
	if err != nil {
		t.Fatalf("home: %v", err)
	}
	if home.Title != "Questions d'entretien" || home.Description != "Réviser le front-end" || home.Body != "Bienvenue." {
		t.Fatalf("unexpected home %+v", home)
	}
}

func TestLoadQuestionsRejectsInvalidFrontMatter(t *testing.T) {
	cases := map[string]string{
		"unknown category":   "---\nid: 1\ntitle: Go\nslug: go\ncategory: golang\n---\n",
		"unknown difficulty": "---\nid: 1\ntitle: Go\nslug: go\ncategory: css\ndifficulty: expert\n---\n",
		"missing title":      "---\nid: 1\nslug: go\ncategory: css\n---\n",
		"unterminated":       "---\nid: 1\ntitle: Go\n",
		"comma in tag":       "---\nid: 1\ntitle: Go\nslug: go\ncategory: css\ntags: [\"node,js\"]\n---\n",
	}
	for name, body := range cases {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "en", "1-go.md"), body)

		_, err := NewMarkdownLoader(dir, nil).LoadQuestions(context.Background(), domain.LocaleEN)
		if !errors.Is(err, domain.ErrInvalidQuestion) {
			t.Fatalf("%s: expected invalid question error, got %v", name, err)
		}
	}
}

func TestLoadQuestionsMissingLocaleDirectory(t *testing.T) {
	loader := NewMarkdownLoader(t.TempDir(), nil)

	questions, err := loader.LoadQuestions(context.Background(), domain.LocaleEN)
	if err != nil || len(questions) != 0 {
		t.Fatalf("expected empty collection, got %v err=%v", questions, err)
	}
	if _, err := loader.LoadHome(context.Background(), domain.LocaleEN); !errors.Is(err, domain.ErrHomeNotFound) {
		t.Fatalf("expected missing home, got %v", err)
	}
	if _, err := loader.LoadQuestions(context.Background(), "de"); !errors.Is(err, domain.ErrUnsupportedLocale) {
		t.Fatalf("expected unsupported locale, got %v", err)
	}
}
