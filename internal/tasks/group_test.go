package tasks

import (
	"errors"
	"testing"

	"github.com/desertthunder/tlx/internal/formatter"
	"github.com/desertthunder/tlx/internal/models"
	"github.com/desertthunder/tlx/internal/shared"
)

func tr(siteID, key, value string, lang models.Language) *models.Translation {
	kind, _ := models.ClassifyKey(key)
	return models.NewTranslation(0, siteID, key, value, lang, kind)
}

func TestGroup(t *testing.T) {
	t.Run("Nesting And Order", func(t *testing.T) {
		records := []*models.Translation{
			tr("s1", "__timeout", "30", models.English),
			tr("s1", "//welcome", "Welcome", models.English),
			tr("s1", "//welcome", "Bienvenido", models.Spanish),
			tr("s2", "//title", "Title", models.Spanish),
			tr("s1", "//bye", "Bye", models.English),
		}

		groups, err := Group(records, map[string]string{"s1": "site1", "s2": "site2"})
		if err != nil {
			t.Fatalf("Group() error = %v", err)
		}

		if len(groups) != 2 || groups[0].Site != "site1" || groups[1].Site != "site2" {
			t.Fatalf("unexpected site groups %+v", groups)
		}

		site1 := groups[0]
		if len(site1.Languages) != 2 || site1.Languages[0].Language != models.English {
			t.Fatalf("expected EN then ES, got %+v", site1.Languages)
		}

		en := site1.Languages[0]
		if len(en.Files) != 2 || en.Files[0].Kind != models.Template || en.Files[1].Kind != models.Initialize {
			t.Fatalf("expected TPL then INI, got %+v", en.Files)
		}

		want := []formatter.Entry{{Key: "//welcome", Value: "Welcome"}, {Key: "//bye", Value: "Bye"}}
		if len(en.Files[0].Entries) != len(want) {
			t.Fatalf("expected %d template entries, got %d", len(want), len(en.Files[0].Entries))
		}
		for i, e := range want {
			if en.Files[0].Entries[i] != e {
				t.Errorf("entry %d = %+v, want %+v", i, en.Files[0].Entries[i], e)
			}
		}
	})

	t.Run("Last Value Wins In Place", func(t *testing.T) {
		records := []*models.Translation{
			tr("s1", "//a", "first", models.English),
			tr("s1", "//b", "b", models.English),
			tr("s1", "//a", "second", models.English),
		}

		groups, err := Group(records, nil)
		if err != nil {
			t.Fatalf("Group() error = %v", err)
		}

		entries := groups[0].Languages[0].Files[0].Entries
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		if entries[0].Key != "//a" || entries[0].Value != "second" {
			t.Errorf("expected //a=second first, got %+v", entries[0])
		}
		if groups[0].Site != "s1" {
			t.Errorf("unmapped site should fall back to its ID, got %s", groups[0].Site)
		}
	})

	t.Run("Empty Input", func(t *testing.T) {
		groups, err := Group(nil, nil)
		if err != nil || len(groups) != 0 {
			t.Errorf("Group(nil) = %v, %v", groups, err)
		}
	})

	t.Run("Reclassifies Unknown Kind", func(t *testing.T) {
		records := []*models.Translation{
			models.NewTranslation(0, "s1", "__legacy", "v", models.English, models.KeyType("")),
		}

		groups, err := Group(records, nil)
		if err != nil {
			t.Fatalf("Group() error = %v", err)
		}
		if groups[0].Languages[0].Files[0].Kind != models.Initialize {
			t.Errorf("expected INI, got %s", groups[0].Languages[0].Files[0].Kind)
		}
	})

	t.Run("Stored Kind Is Trusted", func(t *testing.T) {
		records := []*models.Translation{
			models.NewTranslation(0, "s1", "//odd", "v", models.English, models.Initialize),
		}

		groups, err := Group(records, nil)
		if err != nil {
			t.Fatalf("Group() error = %v", err)
		}
		if groups[0].Languages[0].Files[0].Kind != models.Initialize {
			t.Errorf("expected stored INI kind, got %s", groups[0].Languages[0].Files[0].Kind)
		}
	})

	t.Run("Unclassifiable Key", func(t *testing.T) {
		records := []*models.Translation{
			tr("s1", "//ok", "v", models.English),
			models.NewTranslation(0, "s1", "plain", "v", models.English, models.KeyType("")),
		}

		if _, err := Group(records, nil); !errors.Is(err, shared.ErrUnclassifiableKey) {
			t.Errorf("expected ErrUnclassifiableKey, got %v", err)
		}
	})
}
