package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/tlx/internal/models"
)

var (
	_ list.Item = siteItem{}
)

// siteItem wraps [models.Site] with its translation counts to implement [list.Item].
type siteItem struct {
	site     *models.Site
	counts   map[models.Language]int
	selected bool
}

func (i siteItem) FilterValue() string { return i.site.Name() }
func (i siteItem) Title() string {
	mark := "[ ]"
	if i.selected {
		mark = "[x]"
	}
	return fmt.Sprintf("%s %s", mark, i.site.Name())
}
func (i siteItem) Description() string {
	total := 0
	parts := make([]string, 0, len(i.counts))
	for lang, n := range i.counts {
		total += n
		parts = append(parts, fmt.Sprintf("%s: %d", lang, n))
	}
	sort.Strings(parts)

	desc := fmt.Sprintf("%d translations", total)
	if len(parts) > 0 {
		desc = fmt.Sprintf("%s (%s)", desc, strings.Join(parts, ", "))
	}
	if i.site.Description() != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.site.Description())
	}
	return desc
}
