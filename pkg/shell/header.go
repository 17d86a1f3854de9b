package shell

import (
	"context"
	"log/slog"
	"strings"

	"github.com/goliatone/go-formblock/pkg/model"
)

// NavLink is a resolved header link.
type NavLink struct {
	Label  string `json:"label"`
	Href   string `json:"href"`
	NewTab bool   `json:"newTab,omitempty"`
}

// NavLinks resolves the main menu items in order. Reference links go through
// the slug formatter; items whose target cannot be resolved are left out.
func (s *Shell) NavLinks(ctx context.Context, menu model.MainMenu) []NavLink {
	out := make([]NavLink, 0, len(menu.NavItems))
	for _, item := range menu.NavItems {
		link := item.Link
		href := ""
		switch link.Type {
		case model.RedirectReference:
			if link.Reference == nil {
				break
			}
			target, err := s.slugs.Format(ctx, *link.Reference)
			if err != nil {
				s.logger.Debug("menu link unresolved",
					slog.String("label", link.Label),
					slog.Any("error", err),
				)
				break
			}
			href = target
		default:
			href = strings.TrimSpace(link.URL)
		}
		if href == "" {
			continue
		}
		out = append(out, NavLink{
			Label:  pick(strings.TrimSpace(link.Label), href),
			Href:   href,
			NewTab: link.NewTab,
		})
	}
	return out
}
