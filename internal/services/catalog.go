package services

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tlx/internal/models"
	"github.com/desertthunder/tlx/internal/repositories"
	"github.com/desertthunder/tlx/internal/shared"
)

// CatalogService implements [Catalog] on top of the sqlite record store.
type CatalogService struct {
	store  *repositories.Store
	logger *log.Logger
}

func NewCatalogService(store *repositories.Store, logger *log.Logger) *CatalogService {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &CatalogService{store: store, logger: logger}
}

func (s *CatalogService) CreateSite(in SiteInput) (*models.Site, error) {
	site := models.NewSite(0, in.Name, in.Description)
	if err := s.store.Sites.Create(site); err != nil {
		return nil, err
	}
	s.logger.Info("site created", "name", site.Name(), "id", site.ID())
	return site, nil
}

func (s *CatalogService) ListSites() ([]*models.Site, error) {
	return s.store.Sites.List(map[string]any{})
}

func (s *CatalogService) DeleteSite(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: site name", shared.ErrMissingArgument)
	}
	if err := s.store.Sites.DeleteByName(name); err != nil {
		return err
	}
	s.logger.Info("site deleted", "name", name)
	return nil
}

func (s *CatalogService) CreateTranslation(in TranslationInput) (*TranslationView, error) {
	v := &models.ValidationError{}

	siteRef := strings.TrimSpace(in.Site)
	var site *models.Site
	if siteRef == "" {
		v.Add("site", "This field may not be blank.")
	} else {
		found, err := s.resolveSite(siteRef)
		switch {
		case errors.Is(err, shared.ErrSiteNotFound):
			v.Add("site", fmt.Sprintf("Object with name=%s does not exist.", siteRef))
		case err != nil:
			return nil, err
		default:
			site = found
		}
	}

	key := strings.TrimSpace(in.Key)
	var kind models.KeyType
	if key == "" {
		v.Add("key", "This field may not be blank.")
	} else if classified, err := models.ClassifyKey(key); err != nil {
		var kerr *models.ValidationError
		if !errors.As(err, &kerr) {
			return nil, err
		}
		v.Merge(kerr)
	} else {
		kind = classified
	}

	var lang models.Language
	if strings.TrimSpace(in.Language) == "" {
		v.Add("language", "This field may not be blank.")
	} else if parsed, err := models.ParseLanguage(strings.TrimSpace(in.Language)); err != nil {
		var lerr *models.ValidationError
		if !errors.As(err, &lerr) {
			return nil, err
		}
		v.Merge(lerr)
	} else {
		lang = parsed
	}

	if !v.Empty() {
		return nil, v
	}

	translation := models.NewTranslation(0, site.ID(), key, in.Value, lang, kind)
	if err := s.store.Translations.Create(translation); err != nil {
		return nil, err
	}
	s.logger.Info("translation created", "site", site.Name(), "key", key, "language", lang, "kind", kind)
	return &TranslationView{Translation: translation, SiteName: site.Name()}, nil
}

func (s *CatalogService) ListTranslations(filter TranslationFilter) ([]*TranslationView, error) {
	criteria := map[string]any{}
	names := map[string]string{}

	if ref := strings.TrimSpace(filter.Site); ref != "" {
		site, err := s.resolveSite(ref)
		if err != nil {
			return nil, err
		}
		criteria["site_id"] = site.ID()
		names[site.ID()] = site.Name()
	} else {
		sites, err := s.store.Sites.List(map[string]any{})
		if err != nil {
			return nil, err
		}
		for _, site := range sites {
			names[site.ID()] = site.Name()
		}
	}

	if code := strings.TrimSpace(filter.Language); code != "" {
		lang, err := models.ParseLanguage(code)
		if err != nil {
			return nil, err
		}
		criteria["language"] = lang
	}

	records, err := s.store.Translations.List(criteria)
	if err != nil {
		return nil, err
	}

	views := make([]*TranslationView, len(records))
	for i, r := range records {
		views[i] = &TranslationView{Translation: r, SiteName: names[r.SiteID()]}
	}
	return views, nil
}

func (s *CatalogService) ListExports(limit int) ([]*models.ExportRecord, error) {
	criteria := map[string]any{}
	if limit > 0 {
		criteria["limit"] = limit
	}
	return s.store.Exports.List(criteria)
}

// resolveSite looks a site up by name, then by ID
func (s *CatalogService) resolveSite(ref string) (*models.Site, error) {
	site, err := s.store.Sites.GetByName(ref)
	if err == nil || !errors.Is(err, shared.ErrSiteNotFound) {
		return site, err
	}
	if byID, idErr := s.store.Sites.Get(ref); idErr == nil {
		return byID, nil
	}
	return nil, err
}
