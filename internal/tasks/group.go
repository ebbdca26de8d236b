package tasks

import (
	"fmt"

	"github.com/desertthunder/tlx/internal/formatter"
	"github.com/desertthunder/tlx/internal/models"
	"github.com/desertthunder/tlx/internal/shared"
)

// SiteGroup holds every non-empty file of one site
type SiteGroup struct {
	Site      string
	Languages []LanguageGroup
}

// LanguageGroup holds the files of one language, Template before Initialize
type LanguageGroup struct {
	Language models.Language
	Files    []FileGroup
}

// FileGroup is the ordered entry list rendered into a single file
type FileGroup struct {
	Kind    models.KeyType
	Entries []formatter.Entry
}

type fileBuilder struct {
	entries []formatter.Entry
	index   map[string]int
}

func (f *fileBuilder) put(key, value string) {
	if i, ok := f.index[key]; ok {
		f.entries[i].Value = value
		return
	}
	f.index[key] = len(f.entries)
	f.entries = append(f.entries, formatter.Entry{Key: key, Value: value})
}

type languageBuilder struct {
	language models.Language
	files    map[models.KeyType]*fileBuilder
}

type siteBuilder struct {
	name      string
	languages []*languageBuilder
	index     map[models.Language]int
}

// Group nests records by site, language and file kind.
//
// siteNames maps a record's site ID to the name used in output; unmapped IDs are used as-is.
// A record whose stored kind is not recognized is classified again from its key, and an
// unclassifiable key fails the whole grouping with [shared.ErrUnclassifiableKey].
func Group(records []*models.Translation, siteNames map[string]string) ([]SiteGroup, error) {
	var sites []*siteBuilder
	siteIndex := map[string]int{}

	for _, r := range records {
		kind := r.KeyType()
		if !kind.Valid() {
			classified, err := models.ClassifyKey(r.Key())
			if err != nil {
				return nil, fmt.Errorf("%w: %q", shared.ErrUnclassifiableKey, r.Key())
			}
			kind = classified
		}

		i, ok := siteIndex[r.SiteID()]
		if !ok {
			name, named := siteNames[r.SiteID()]
			if !named {
				name = r.SiteID()
			}
			i = len(sites)
			siteIndex[r.SiteID()] = i
			sites = append(sites, &siteBuilder{name: name, index: map[models.Language]int{}})
		}
		site := sites[i]

		j, ok := site.index[r.Language()]
		if !ok {
			j = len(site.languages)
			site.index[r.Language()] = j
			site.languages = append(site.languages, &languageBuilder{
				language: r.Language(),
				files:    map[models.KeyType]*fileBuilder{},
			})
		}
		lang := site.languages[j]

		file, ok := lang.files[kind]
		if !ok {
			file = &fileBuilder{index: map[string]int{}}
			lang.files[kind] = file
		}
		file.put(r.Key(), r.Value())
	}

	groups := make([]SiteGroup, 0, len(sites))
	for _, site := range sites {
		sg := SiteGroup{Site: site.name}
		for _, lang := range site.languages {
			lg := LanguageGroup{Language: lang.language}
			for _, kind := range models.KeyTypes {
				if file, ok := lang.files[kind]; ok && len(file.entries) > 0 {
					lg.Files = append(lg.Files, FileGroup{Kind: kind, Entries: file.entries})
				}
			}
			if len(lg.Files) > 0 {
				sg.Languages = append(sg.Languages, lg)
			}
		}
		if len(sg.Languages) > 0 {
			groups = append(groups, sg)
		}
	}
	return groups, nil
}
